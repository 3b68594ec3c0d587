// Package commands provides a central registry of gdpp CLI commands.
// This registry is the single source of truth for command metadata,
// used by the CLI help text and the interactive menu.
package commands

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Command path (e.g., "rename", "profile set")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples

	// MutatesProject marks commands that edit files in the project tree.
	MutatesProject bool

	// MenuLabel places the command in the interactive menu when non-empty.
	MenuLabel string
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string   // Argument name
	Description string   // Description
	Required    bool     // Is this argument required?
	Variadic    bool     // Accepts any number of tokens
	Completions []string // Static completions (if any)
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "dry-run")
	Short       string   // Short flag (e.g., "n" for -n)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString      FlagType = "string"
	FlagTypeBool        FlagType = "bool"
	FlagTypeStringSlice FlagType = "stringSlice" // Comma-separated or repeatable
)

// Registry holds all registered commands, keyed by command ID
// (the command path with spaces replaced by underscores).
var Registry = map[string]Meta{
	"rename": {
		Name:        "rename",
		Description: "Rename the plugin across the template",
		LongDesc: `Renames the plugin directory, its .gdextension manifest, built binaries,
and every file that embeds the plugin name.

The name tokens are joined with spaces and sanitized: characters other than
letters, digits, underscore and space are dropped, then spaces become
underscores. The result must start with a letter or underscore and must not be
a reserved filename (con, prn, aux, nul, com1-9, lpt1-9).

The rename is all-or-nothing. If any step fails, every step already applied
is undone and the project is left exactly as it was.`,
		Args: []ArgMeta{
			{Name: "name", Description: "New plugin name (tokens are joined with spaces)", Required: true, Variadic: true},
		},
		Flags: []FlagMeta{
			{Name: "dry-run", Short: "n", Description: "List the steps without changing anything", Type: FlagTypeBool},
		},
		Examples: []string{
			"gdpp rename MyPlugin",
			"gdpp rename New Plugin --dry-run",
			"gdpp rename terrain_tools --json",
		},
		MutatesProject: true,
		MenuLabel:      "Rename plugin",
	},
	"godot-version": {
		Name:        "godot-version",
		Description: "Show or switch the godot-cpp version",
		LongDesc: `Without a subcommand, fetches the godot-cpp branches and prompts for one
on a terminal. Use 'list' or 'use' for scripted access.`,
		MutatesProject: true,
		MenuLabel:      "Change godot-cpp version",
	},
	"godot-version_list": {
		Name:        "godot-version list",
		Description: "List available godot-cpp branches",
		LongDesc: `Fetches the godot-cpp submodule remote and lists the 4.x release branches
plus master, with the version currently recorded for the plugin.`,
		Examples: []string{
			"gdpp godot-version list",
			"gdpp godot-version list --json",
		},
	},
	"godot-version_use": {
		Name:        "godot-version use",
		Description: "Switch godot-cpp to a branch",
		LongDesc: `Checks out the branch in the godot-cpp submodule and records the matching
Godot version in .gitmodules, the identity file and the plugin manifest.
Choosing master records the next minor version after the newest release
branch.`,
		Args: []ArgMeta{
			{Name: "branch", Description: "Branch name (e.g., 4.3 or master)", Required: true},
		},
		Examples: []string{
			"gdpp godot-version use 4.3",
			"gdpp godot-version use master",
		},
		MutatesProject: true,
	},
	"profile": {
		Name:        "profile",
		Description: "Show or change the godot-cpp build profile",
		LongDesc: `Without a subcommand, prompts for a build profile on a terminal. Use
'show' or 'set' for scripted access.`,
		MutatesProject: true,
		MenuLabel:      "Change build profile",
	},
	"profile_show": {
		Name:        "profile show",
		Description: "Show the active build profile",
		Examples: []string{
			"gdpp profile show --json",
		},
	},
	"profile_set": {
		Name:        "profile set",
		Description: "Switch the build profile",
		LongDesc: `Sets the SConstruct profile flags. The 2d and 3d profiles are generated
from godot-cpp's extension_api.json: 2d disables every 3D class and 3d every
2D class, plus any extra class groups passed with --disable. The custom
profile uses your own build_profile.json. none compiles every class.

Old build files are removed with 'scons -c' unless --no-clean is given.`,
		Args: []ArgMeta{
			{Name: "kind", Description: "Profile kind", Required: true, Completions: []string{"none", "2d", "3d", "custom"}},
		},
		Flags: []FlagMeta{
			{Name: "disable", Description: "Extra class groups to disable (xr, networking, navigation, editor, animation, ui)", Type: FlagTypeStringSlice},
			{Name: "no-clean", Description: "Skip 'scons -c' after switching", Type: FlagTypeBool},
		},
		Examples: []string{
			"gdpp profile set 2d --disable xr,ui",
			"gdpp profile set custom --no-clean",
		},
		MutatesProject: true,
	},
	"status": {
		Name:        "status",
		Description: "Show plugin name, godot-cpp version and build profile",
		Examples: []string{
			"gdpp status",
			"gdpp status --json",
		},
	},
	"menu": {
		Name:        "menu",
		Description: "Interactive setup menu",
		LongDesc: `Shows the plugin status and a menu of setup actions, looping until you
quit. This is also what runs when gdpp is started on a terminal without a
command.`,
	},
	"init": {
		Name:        "init",
		Description: "Write gdpp.yaml with the default layout",
		LongDesc: `Writes gdpp.yaml with the stock template layout to the project root so
paths can be adjusted. An existing gdpp.yaml is kept. With --name the project
is also registered in the global config so --project <name> finds it.`,
		Args: []ArgMeta{
			{Name: "path", Description: "Project root (default: current directory)"},
		},
		Flags: []FlagMeta{
			{Name: "name", Description: "Register the project under this name", Type: FlagTypeString},
		},
		Examples: []string{
			"gdpp init",
			"gdpp init ~/dev/my-extension --name game",
		},
		MutatesProject: true,
	},
	"config": {
		Name:        "config",
		Description: "Manage the global gdpp configuration",
	},
	"config_init": {
		Name:        "config init",
		Description: "Create the global config file with defaults",
	},
	"config_show": {
		Name:        "config show",
		Description: "Show the resolved global configuration",
	},
	"config_path": {
		Name:        "config path",
		Description: "Print the global config file path",
	},
	"config_set": {
		Name:        "config set",
		Description: "Update global config settings",
		Flags: []FlagMeta{
			{Name: "default-project", Description: "Project name or path used when --project is not given", Type: FlagTypeString},
			{Name: "add-project", Description: "Register a named project (name=path, repeatable)", Type: FlagTypeStringSlice},
			{Name: "log-level", Description: "Log level: debug, info, warn, error", Type: FlagTypeString},
			{Name: "transliterate", Description: "Transliterate accented letters in plugin names", Type: FlagTypeBool},
			{Name: "ui-accent", Description: "Accent color (ANSI 0-255 or #RRGGBB)", Type: FlagTypeString},
			{Name: "ui-code-theme", Description: "Code block theme for rendered markdown", Type: FlagTypeString},
		},
		Examples: []string{
			"gdpp config set --add-project game=~/dev/my-extension --default-project game",
			"gdpp config set --log-level debug",
		},
	},
	"docs": {
		Name:        "docs",
		Description: "Read the bundled guides",
		Args: []ArgMeta{
			{Name: "topic", Description: "Guide to show", Completions: []string{"profiles", "rename", "versions"}},
		},
		Examples: []string{
			"gdpp docs",
			"gdpp docs rename",
		},
	},
	"version": {
		Name:        "version",
		Description: "Show gdpp version and build information",
		LongDesc: `Prints the gdpp build. Inside a project it also reports the plugin
name, the targeted Godot version and the active build profile.`,
	},
}
