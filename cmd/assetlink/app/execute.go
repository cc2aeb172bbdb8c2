package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/simpilot/assetlink/cmd/assetlink/cmd/candidates"
	"github.com/simpilot/assetlink/cmd/assetlink/cmd/link"
	"github.com/simpilot/assetlink/cmd/assetlink/cmd/normalize"
	"github.com/simpilot/assetlink/cmd/assetlink/cmd/version"
	"github.com/simpilot/assetlink/pkg/constants"
	"github.com/simpilot/assetlink/pkg/logging"
)

// Execute runs the assetlink CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     constants.AppName,
		Short:   "Link robots and tools to their station cells",
		Version: a.version,
		Long: `assetlink resolves robots and tools imported from plant spreadsheets to
the station cells they belong to.

Station codes, area names and asset names are normalized so that
"OP-010", "op 10" and "Station 10" land on the same key. Deterministic
matches become links with a confidence grade; everything else is
reported as a warning, and fuzzy candidates can be listed for review.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "utility",
		Title: "Utility Commands:",
	})

	// Flags are read in setupCommand rather than bound to config fields,
	// so defaults never clobber values loaded from the environment.
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.assetlink.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate(constants.AppName + " {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	if configFile := mustGetString(cmd, "config"); configFile != "" && configFile != a.config.ConfigFile {
		if err := a.reloadConfig(configFile); err != nil {
			return err
		}
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// reloadConfig reloads configuration from an explicit --config file.
func (a *App) reloadConfig(path string) error {
	if err := os.Setenv("ASSETLINK_CONFIG", path); err != nil {
		return err
	}
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	a.config = config
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	linkCmd := link.NewCommand(a)
	linkCmd.GroupID = "core"
	rootCmd.AddCommand(linkCmd)

	candidatesCmd := candidates.NewCommand(a)
	candidatesCmd.GroupID = "core"
	rootCmd.AddCommand(candidatesCmd)

	normalizeCmd := normalize.NewCommand(a)
	normalizeCmd.GroupID = "utility"
	rootCmd.AddCommand(normalizeCmd)

	versionCmd := version.NewCommand(a)
	versionCmd.GroupID = "utility"
	rootCmd.AddCommand(versionCmd)
}

// ExitOnError prints an error and exits with status 1.
// It is meant for top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
