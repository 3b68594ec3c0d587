package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/config"
)

func configData() map[string]interface{} {
	c := getConfig()
	projects := make(map[string]string, len(c.Projects))
	for name, path := range c.Projects {
		projects[name] = path
	}
	_, statErr := os.Stat(getConfigPath())

	return map[string]interface{}{
		"config_path":     getConfigPath(),
		"exists":          statErr == nil,
		"default_project": strings.TrimSpace(c.DefaultProject),
		"projects":        projects,
		"log_level":       c.Level(),
		"transliterate":   c.Transliterate,
		"ui": map[string]interface{}{
			"accent":     strings.TrimSpace(c.UI.Accent),
			"code_theme": strings.TrimSpace(c.UI.CodeTheme),
		},
	}
}

var configCmd = &cobra.Command{
	Use:  "config",
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("config_show")
	cmd.RunE = runConfigShow
	return cmd
}()

func runConfigShow(cmd *cobra.Command, args []string) error {
	data := configData()
	if isJSONOutput() {
		outputSuccess(data)
		return nil
	}

	if exists, _ := data["exists"].(bool); !exists {
		fmt.Printf("Config file does not exist: %s\n", getConfigPath())
		fmt.Println("Run 'gdpp config init' to create it.")
		return nil
	}

	c := getConfig()
	fmt.Printf("config: %s\n", getConfigPath())
	if v := strings.TrimSpace(c.DefaultProject); v != "" {
		fmt.Printf("default_project: %s\n", v)
	}
	fmt.Printf("log_level: %s\n", c.Level())
	fmt.Printf("transliterate: %t\n", c.Transliterate)
	if v := strings.TrimSpace(c.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}
	if v := strings.TrimSpace(c.UI.CodeTheme); v != "" {
		fmt.Printf("ui.code_theme: %s\n", v)
	}
	if len(c.Projects) > 0 {
		names := make([]string, 0, len(c.Projects))
		for name := range c.Projects {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("projects:")
		for _, name := range names {
			fmt.Printf("  %s = %s\n", name, c.Projects[name])
		}
	}
	return nil
}

var configInitCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("config_init")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		path := getConfigPath()
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"config_path": path, "created": created})
			return nil
		}
		if created {
			fmt.Printf("Created %s\n", path)
		} else {
			fmt.Printf("Config already exists: %s\n", path)
		}
		return nil
	}
	return cmd
}()

var configPathCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("config_path")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"config_path": getConfigPath()})
			return nil
		}
		fmt.Println(getConfigPath())
		return nil
	}
	return cmd
}()

var configSetCmd = newConfigSetCmd()

func newConfigSetCmd() *cobra.Command {
	cmd := commands.GenerateCobraCommand("config_set")
	cmd.RunE = runConfigSet
	return cmd
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	c := *getConfig()
	if c.Projects != nil {
		projects := make(map[string]string, len(c.Projects))
		for k, v := range c.Projects {
			projects[k] = v
		}
		c.Projects = projects
	}

	changed := 0
	if f := cmd.Flags().Lookup("default-project"); f != nil && f.Changed {
		c.DefaultProject = f.Value.String()
		changed++
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		c.LogLevel = f.Value.String()
		changed++
	}
	if f := cmd.Flags().Lookup("transliterate"); f != nil && f.Changed {
		c.Transliterate, _ = cmd.Flags().GetBool("transliterate")
		changed++
	}
	if f := cmd.Flags().Lookup("ui-accent"); f != nil && f.Changed {
		c.UI.Accent = f.Value.String()
		changed++
	}
	if f := cmd.Flags().Lookup("ui-code-theme"); f != nil && f.Changed {
		c.UI.CodeTheme = f.Value.String()
		changed++
	}
	adds, _ := cmd.Flags().GetStringSlice("add-project")
	for _, entry := range adds {
		name, path, ok := strings.Cut(entry, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || name == "" || path == "" {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("invalid project %q", entry), "Use --add-project name=/path/to/project")
		}
		if c.Projects == nil {
			c.Projects = map[string]string{}
		}
		c.Projects[name] = path
		changed++
	}
	if changed == 0 {
		return handleErrorMsg(ErrInvalidInput, "no settings given", "Pass at least one flag, e.g. --default-project game")
	}

	if err := config.SaveTo(getConfigPath(), &c); err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	cfg = &c

	if isJSONOutput() {
		outputSuccess(configData())
		return nil
	}
	fmt.Printf("Updated %s\n", getConfigPath())
	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
