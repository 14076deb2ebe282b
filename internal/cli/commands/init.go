package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/classmeta/internal/cli/config"
	"github.com/conduit-lang/classmeta/internal/cli/ui"
)

const noStore = "none"

func newInitCommand(s *session) *cobra.Command {
	var yes, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a classmeta.yaml configuration",
		Long: `Create a classmeta.yaml configuration in the working directory, or at
the path given by --config. The prompts ask where definitions live, which
store to use, and the server port. With --yes the defaults are written
without prompting.`,
		Args: cobra.NoArgs,
		// init writes the configuration, so none is loaded first.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s.palette = ui.NewPalette(s.noColor)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := s.configPath
			if path == "" {
				path = config.FileName + ".yaml"
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists: use --force to overwrite it", path)
			}

			cfg := config.Default()
			cfg.Definitions = []string{"definitions"}
			if !yes {
				if err := ask(cfg); err != nil {
					return err
				}
			}
			if err := config.Write(path, cfg); err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), s.palette, "wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Write the defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

// ask fills cfg from interactive prompts
func ask(cfg *config.Config) error {
	var defs string
	if err := survey.AskOne(&survey.Input{
		Message: "Definitions directory:",
		Default: cfg.Definitions[0],
	}, &defs, survey.WithValidator(survey.Required)); err != nil {
		return err
	}
	cfg.Definitions = []string{defs}

	driver := noStore
	if err := survey.AskOne(&survey.Select{
		Message: "Store imported definitions in:",
		Options: append([]string{noStore}, config.Drivers...),
		Default: noStore,
	}, &driver); err != nil {
		return err
	}
	if driver != noStore {
		cfg.Store.Driver = driver
	}

	switch driver {
	case noStore:
	case "redis":
		if err := survey.AskOne(&survey.Input{
			Message: "Redis address:",
			Default: cfg.Store.Redis.Addr,
		}, &cfg.Store.Redis.Addr, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	default:
		def := "classmeta.db"
		if driver != "sqlite3" {
			def = "postgres://localhost:5432/classmeta?sslmode=disable"
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Data source name:",
			Default: def,
		}, &cfg.Store.DSN, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	port := strconv.Itoa(cfg.Server.Port)
	if err := survey.AskOne(&survey.Input{
		Message: "Server port:",
		Default: port,
	}, &port, survey.WithValidator(validPort)); err != nil {
		return err
	}
	cfg.Server.Port, _ = strconv.Atoi(port)
	return nil
}

func validPort(ans interface{}) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}
