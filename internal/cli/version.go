package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/gdpp-dev/gdpp/internal/buildinfo"
	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/project"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

type buildJSON struct {
	Version  string `json:"version"`
	Commit   string `json:"commit,omitempty"`
	Built    string `json:"built,omitempty"`
	Dirty    bool   `json:"dirty,omitempty"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

type pluginVersionJSON struct {
	Root         string `json:"root"`
	Plugin       string `json:"plugin"`
	GodotVersion string `json:"godot_version"`
	BuildProfile string `json:"build_profile,omitempty"`
}

type versionJSON struct {
	Gdpp    buildJSON          `json:"gdpp"`
	Project *pluginVersionJSON `json:"project,omitempty"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("version")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		out := versionJSON{Gdpp: currentBuild()}
		if p, err := resolveProject(); err == nil {
			out.Project = pluginVersion(p)
		} else {
			logger.Debug("no project for version report", "err", err)
		}

		if isJSONOutput() {
			outputSuccess(out)
			return nil
		}
		printVersion(out)
		return nil
	}
	return cmd
}()

// currentBuild prefers the release metadata injected with -ldflags and falls
// back to what the Go toolchain stamped into the binary.
func currentBuild() buildJSON {
	b := buildJSON{
		Version:  buildinfo.Version,
		Commit:   buildinfo.Commit,
		Built:    buildinfo.Date,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := readBuildInfo(); ok && info != nil {
		if b.Version == "" && info.Main.Version != "(devel)" {
			b.Version = info.Main.Version
		}
		if info.GoVersion != "" {
			b.Go = info.GoVersion
		}
		settings := map[string]string{}
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
		if b.Commit == "" {
			b.Commit = settings["vcs.revision"]
		}
		if b.Built == "" {
			b.Built = settings["vcs.time"]
		}
		b.Dirty = settings["vcs.modified"] == "true"
	}
	if b.Version == "" {
		b.Version = "devel"
	}
	if len(b.Commit) > 12 {
		b.Commit = b.Commit[:12]
	}
	return b
}

// pluginVersion reads what the project targets. It returns nil when the
// identity file cannot be read.
func pluginVersion(p *project.Project) *pluginVersionJSON {
	rec, err := p.Identity()
	if err != nil {
		logger.Debug("identity unreadable", "err", err)
		return nil
	}
	out := &pluginVersionJSON{Root: p.Root, Plugin: rec.Name, GodotVersion: rec.Version}
	if kind, err := newProfileManager(p).Current(); err == nil {
		out.BuildProfile = string(kind)
	}
	return out
}

func printVersion(v versionJSON) {
	line := "gdpp " + v.Gdpp.Version
	if v.Gdpp.Commit != "" {
		commit := v.Gdpp.Commit
		if v.Gdpp.Dirty {
			commit += "-dirty"
		}
		line += fmt.Sprintf(" (%s", commit)
		if v.Gdpp.Built != "" {
			line += ", built " + v.Gdpp.Built
		}
		line += ")"
	}
	fmt.Println(ui.Bold.Render(line))
	fmt.Println(ui.Hint(v.Gdpp.Go + " " + v.Gdpp.Platform))

	if v.Project == nil {
		return
	}
	fmt.Printf("%s targets Godot %s", ui.Name(v.Project.Plugin), v.Project.GodotVersion)
	if v.Project.BuildProfile != "" {
		fmt.Printf(" with the %s build profile", v.Project.BuildProfile)
	}
	fmt.Println()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
