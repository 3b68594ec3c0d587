// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/config"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

var (
	// Global flags
	projectFlag  string // Project name from config or a path
	configPath   string
	logLevelFlag string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
	logger             = log.NewWithOptions(os.Stderr, log.Options{Prefix: "gdpp", Level: log.WarnLevel})
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gdpp",
	Short: "gdpp - setup tool for the Godot GDExtension C++ template",
	Long: `gdpp prepares a GDExtension C++ plugin template for your own plugin.

It renames the plugin across every file that embeds its name, switches the
godot-cpp version the plugin targets, and generates build profiles that trim
unused engine classes from the build.

Run without a command on a terminal to open the interactive menu.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleErrorMsg(ErrConfigInvalid, fmt.Sprintf("failed to load config: %v", err), "Run 'gdpp config path' to locate the file")
		}

		level := cfg.Level()
		if logLevelFlag != "" {
			level = logLevelFlag
		}
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid log level %q", level), "Use debug, info, warn or error")
		}
		logger.SetLevel(parsed)

		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return cmd.Help()
		}
		return runMenu(commandContext(cmd))
	},
}

// errReported marks an error that was already written to the user. It only
// sets the exit status.
var errReported = errors.New("error already reported")

// Execute runs the CLI.
func Execute() error {
	syncRegistryMetadata(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project name from config, or path to the project root")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides log_level in config)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

// requireProject resolves the project root: --project, then the configured
// default project, then discovery from the working directory. Failures are
// reported to the user.
func requireProject() (*project.Project, error) {
	p, err := resolveProject()
	if err != nil {
		if errors.Is(err, project.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return nil, handleError(ErrProjectNotFound, err, "Run gdpp inside the template, or pass --project <path>")
		}
		return nil, handleError(ErrConfigInvalid, err, "Check gdpp.yaml in the project root")
	}
	return p, nil
}

// resolveProject is requireProject without reporting.
func resolveProject() (*project.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	c := getConfig()
	explicit := ""
	if strings.TrimSpace(projectFlag) != "" {
		explicit = c.ProjectPath(projectFlag)
	}
	p, err := project.Resolve(explicit, c.ProjectPath(""), cwd)
	if err != nil {
		return nil, err
	}
	logger.Debug("project resolved", "root", p.Root)
	return p, nil
}

// loadGlobalConfigWithPath loads the global config, treating a missing file as
// an empty config.
func loadGlobalConfigWithPath() (*config.Config, string, error) {
	path := config.DefaultPath()
	if strings.TrimSpace(configPath) != "" {
		path = configPath
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return &config.Config{}, path, nil
	}
	loadedCfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	return loadedCfg, path, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
