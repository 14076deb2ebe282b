package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/classmeta/internal/classdef"
	"github.com/conduit-lang/classmeta/internal/cli/ui"
	"github.com/conduit-lang/classmeta/internal/store"
	"github.com/conduit-lang/classmeta/internal/vm"
)

func newImportCommand(s *session) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import [path...]",
		Short: "Import definition files into the store",
		Long: `Import definition files into the configured store. Each file is kept
under its slash-separated path, so importing a file again replaces it.

Before anything is written, the files are linked together with the
documents already in the store; a file that does not link is not imported.
Without arguments, the configured definitions are imported.`,
		Example: `  # Import a directory into the configured store
  classmeta import definitions/

  # Check that files would link without writing them
  classmeta import --dry-run lang.yaml app.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			paths := args
			if len(paths) == 0 {
				paths = s.cfg.Definitions
			}
			if len(paths) == 0 {
				return fmt.Errorf("nothing to import: pass files or set definitions in classmeta.yaml")
			}
			files, err := classdef.Files(paths...)
			if err != nil {
				return err
			}
			docs := make([]*classdef.Document, len(files))
			keys := make([]string, len(files))
			for i, f := range files {
				if docs[i], err = classdef.LoadFile(f); err != nil {
					return err
				}
				keys[i] = filepath.ToSlash(filepath.Clean(f))
			}

			st, err := s.openStore(ctx)
			if err != nil {
				return err
			}
			if st == nil {
				return errNoStore
			}
			defer st.Close()

			if err := link(ctx, st, keys, docs); err != nil {
				return err
			}
			if dryRun {
				ui.Success(cmd.OutOrStdout(), s.palette, "%d files link cleanly", len(files))
				return nil
			}

			bar := ui.NewProgressBar(cmd.ErrOrStderr(), s.palette, len(files), "importing")
			for i, doc := range docs {
				if err := st.Put(ctx, keys[i], doc); err != nil {
					bar.Done()
					return err
				}
				s.logger.Debug("definitions imported", zap.String("key", keys[i]), zap.Int("classes", len(doc.Classes)))
				bar.Step(keys[i])
			}
			bar.Done()
			ui.Success(cmd.OutOrStdout(), s.palette, "imported %d files", len(files))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Check the files without writing them")
	return cmd
}

// link loads docs together with the stored documents that they do not
// replace, failing if the result does not define cleanly
func link(ctx context.Context, st store.Store, keys []string, docs []*classdef.Document) error {
	replaced := make(map[string]bool, len(keys))
	for _, k := range keys {
		replaced[k] = true
	}
	stored, err := st.Keys(ctx)
	if err != nil {
		return err
	}
	all := make([]*classdef.Document, 0, len(stored)+len(docs))
	for _, k := range stored {
		if replaced[k] {
			continue
		}
		doc, err := st.Get(ctx, k)
		if err != nil {
			return err
		}
		all = append(all, doc)
	}
	all = append(all, docs...)
	if _, err := vm.New().Load(all...); err != nil {
		return fmt.Errorf("definitions do not link: %w", err)
	}
	return nil
}
