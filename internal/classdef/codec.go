package classdef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for unknown formats and file extensions.
var ErrUnsupportedFormat = errors.New("unsupported definition format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Parse decodes and validates a document. Unknown keys are rejected.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML definitions: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON definitions: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseClass decodes and validates a single class definition.
func ParseClass(data []byte, format Format) (*Class, error) {
	var c Class
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to parse YAML definition: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to parse JSON definition: %w", err)
		}
	default:
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the document.
func (d *Document) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(d)
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	}
	return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
}

// LoadFile reads a single definition file.
func LoadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadPaths reads every file named by Files.
func LoadPaths(paths ...string) ([]*Document, error) {
	files, err := Files(paths...)
	if err != nil {
		return nil, err
	}
	docs := make([]*Document, 0, len(files))
	for _, f := range files {
		doc, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Files expands paths into definition files: a listed file is kept as is,
// a directory contributes every .yaml, .yml or .json file below it in
// lexical order.
func Files(paths ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		var files []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if _, ferr := FormatOf(path); ferr == nil {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// Validate checks what can be checked without a loader: names are present
// and unique, kinds and modifiers are known.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Classes))
	var errs []error
	for i := range d.Classes {
		c := &d.Classes[i]
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("%s: defined twice", c.Name))
		}
		seen[c.Name] = true
	}
	return errors.Join(errs...)
}

// Validate checks a single definition.
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("class definition without a name")
	}
	if _, err := c.ClassModifiers(); err != nil {
		return err
	}
	if c.IsInterface() && c.Superclass != "" {
		return fmt.Errorf("%s: interfaces have no superclass", c.Name)
	}
	if len(c.Permits) > 0 && !c.Sealed {
		return fmt.Errorf("%s: permits requires sealed", c.Name)
	}
	if len(c.RecordComponents) > 0 && c.Kind != KindRecord {
		return fmt.Errorf("%s: only records have record components", c.Name)
	}
	for _, f := range c.Fields {
		if f.Name == "" || f.Type == "" {
			return fmt.Errorf("%s: field needs a name and a type", c.Name)
		}
		if _, err := ParseModifiers(f.Modifiers); err != nil {
			return fmt.Errorf("%s.%s: %w", c.Name, f.Name, err)
		}
	}
	for _, m := range c.Methods {
		if m.Name == "" {
			return fmt.Errorf("%s: method without a name", c.Name)
		}
		if _, err := ParseModifiers(m.Modifiers); err != nil {
			return fmt.Errorf("%s.%s: %w", c.Name, m.Name, err)
		}
	}
	for _, ctor := range c.Constructors {
		if _, err := ParseModifiers(ctor.Modifiers); err != nil {
			return fmt.Errorf("%s.<init>: %w", c.Name, err)
		}
	}
	return nil
}
