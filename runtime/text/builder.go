package text

import (
	"unicode/utf16"
	"unicode/utf8"
)

// CharSequence is a readable sequence of UTF-16 code units.
type CharSequence interface {
	Len() int
	CharAt(index int) (uint16, error)
}

// Units adapts a slice of UTF-16 code units to CharSequence.
type Units []uint16

// UnitsOf encodes s as UTF-16.
func UnitsOf(s string) Units { return Units(utf16.Encode([]rune(s))) }

func (u Units) Len() int { return len(u) }

func (u Units) CharAt(index int) (uint16, error) {
	if err := checkIndex("charAt", index, len(u)); err != nil {
		return 0, err
	}
	return u[index], nil
}

func (u Units) String() string { return string(utf16.Decode(u)) }

// Config controls the initial sizing and the growth ceiling of a Builder.
type Config struct {
	// InitialCapacity is the starting capacity in characters.
	InitialCapacity int
	// MaxCapacity is the growth ceiling in characters. Zero means MaxCapacity.
	MaxCapacity int
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{InitialCapacity: DefaultCapacity, MaxCapacity: MaxCapacity}
}

// Builder is a mutable sequence of UTF-16 code units. It is not safe for
// concurrent use; see SyncBuilder.
type Builder struct {
	Buffer
}

// New returns an empty builder with the default capacity.
func New() *Builder {
	b, _ := NewWithConfig(DefaultConfig())
	return b
}

// NewWithCapacity returns an empty builder that holds capacity characters
// without growing.
func NewWithCapacity(capacity int) (*Builder, error) {
	cfg := DefaultConfig()
	cfg.InitialCapacity = capacity
	return NewWithConfig(cfg)
}

// NewWithConfig returns an empty builder configured by cfg.
func NewWithConfig(cfg Config) (*Builder, error) {
	buf, err := newBuffer(cfg.InitialCapacity, cfg.MaxCapacity)
	if err != nil {
		return nil, err
	}
	return &Builder{Buffer: buf}, nil
}

// NewFromString returns a builder holding s with room for 16 more characters.
func NewFromString(s string) *Builder {
	n := utf16Len(s)
	buf, _ := newBuffer(n+DefaultCapacity, MaxCapacity)
	b := &Builder{Buffer: buf}
	b.count = n
	b.putString(0, s)
	return b
}

// String returns the content as a Go string.
func (b *Builder) String() string { return b.decode(0, b.count) }

// UTF16 returns a copy of the content as code units.
func (b *Builder) UTF16() []uint16 { return b.units(0, b.count) }

// Substring returns the characters from begin to the end.
func (b *Builder) Substring(begin int) (string, error) {
	return b.SubstringRange(begin, b.count)
}

// SubstringRange returns a snapshot of [begin, end). The result never aliases
// the live store.
func (b *Builder) SubstringRange(begin, end int) (string, error) {
	if err := checkRange("substring", begin, end, b.count); err != nil {
		return "", err
	}
	return b.decode(begin, end), nil
}

// SubSequence returns [begin, end) as a code unit sequence.
func (b *Builder) SubSequence(begin, end int) (Units, error) {
	if err := checkRange("subSequence", begin, end, b.count); err != nil {
		return nil, err
	}
	return Units(b.units(begin, end)), nil
}

// Compare orders two builders lexicographically by code unit.
func (b *Builder) Compare(other *Builder) int {
	n := min(b.count, other.count)
	for i := 0; i < n; i++ {
		x, y := b.unit(i), other.unit(i)
		if x != y {
			return int(x) - int(y)
		}
	}
	return b.count - other.count
}

// Write appends p decoded as UTF-8. It implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	if err := b.AppendString(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString appends s. It implements io.StringWriter.
func (b *Builder) WriteString(s string) (int, error) {
	if err := b.AppendString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteRune appends r, encoding it as a surrogate pair when needed.
func (b *Builder) WriteRune(r rune) (int, error) {
	if err := b.AppendCodePoint(r); err != nil {
		return 0, err
	}
	return utf8.RuneLen(r), nil
}

// WriteByte appends c as a Latin-1 character. It implements io.ByteWriter.
func (b *Builder) WriteByte(c byte) error {
	return b.AppendChar(uint16(c))
}
