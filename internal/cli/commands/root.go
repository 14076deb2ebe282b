package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/classmeta/internal/cli/config"
	"github.com/conduit-lang/classmeta/internal/cli/ui"
	"github.com/conduit-lang/classmeta/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// Output formats accepted by --format
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// session is the state shared by the commands of one invocation
type session struct {
	configPath  string
	format      string
	noColor     bool
	logLevel    string
	definitions []string

	cfg     *config.Config
	logger  *zap.Logger
	palette *ui.Palette
}

// setup loads configuration and applies the global flags
func (s *session) setup(cmd *cobra.Command) error {
	if s.noColor {
		color.NoColor = true
	}
	s.palette = ui.NewPalette(s.noColor)
	if s.format != FormatTable && s.format != FormatJSON {
		return fmt.Errorf("unknown format %q: use %s or %s", s.format, FormatTable, FormatJSON)
	}

	cfg, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("definitions") {
		cfg.Definitions = s.definitions
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = s.logLevel
	}
	s.cfg = cfg

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	s.logger = logger
	return nil
}

func (s *session) json() bool { return s.format == FormatJSON }

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	s := &session{}
	rootCmd := &cobra.Command{
		Use:   "classmeta",
		Short: "Inspect and serve class metadata",
		Long: color.CyanString(`classmeta - class metadata and reflection

classmeta loads class definitions written in YAML or JSON, links them into
a type universe of loaders, types and members, and answers reflective
queries about them from the command line or over HTTP.

When a store is configured, definitions are read from the store and
"classmeta import" puts files into it. Otherwise the definition files
named by the configuration or by --definitions are read directly.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if s.logger != nil {
				_ = s.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "Config file (default ./classmeta.yaml)")
	flags.StringVar(&s.format, "format", FormatTable, "Output format: json or table")
	flags.BoolVar(&s.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&s.logLevel, "log-level", "", "Log level: debug, info, warn, error or off")
	flags.StringSliceVarP(&s.definitions, "definitions", "d", nil, "Definition files or directories")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newInitCommand(s))
	rootCmd.AddCommand(newTypesCommand(s))
	rootCmd.AddCommand(newInspectCommand(s))
	rootCmd.AddCommand(newFieldsCommand(s))
	rootCmd.AddCommand(newFieldCommand(s))
	rootCmd.AddCommand(newMethodsCommand(s))
	rootCmd.AddCommand(newMethodCommand(s))
	rootCmd.AddCommand(newConstructorsCommand(s))
	rootCmd.AddCommand(newHierarchyCommand(s))
	rootCmd.AddCommand(newListingCommand(s))
	rootCmd.AddCommand(newImportCommand(s))
	rootCmd.AddCommand(newServeCommand(s))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the classmeta version, Git commit, build date, and Go version",
		// Version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}
			pairs := ui.NewPairs(cmd.OutOrStdout(), ui.NewPalette(color.NoColor))
			pairs.Add("classmeta version", Version)
			pairs.Add("Git commit", GitCommit)
			pairs.Add("Build date", BuildDate)
			pairs.Add("Go version", goVer)
			pairs.Render()
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
		report(rootCmd.ErrOrStderr(), ui.NewPalette(noColor || color.NoColor), err)
	}
	return err
}

// report prints err, with suggestions when it is a failed type lookup
func report(w io.Writer, palette *ui.Palette, err error) {
	var nf *typeNotFound
	if errors.As(err, &nf) {
		fmt.Fprint(w, ui.NotFound(palette, nf.Error(), nf.name, nf.candidates))
		return
	}
	ui.Failure(w, palette, err)
}
