package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gdpp-dev/gdpp/docs"
	"github.com/gdpp-dev/gdpp/internal/commands"
	"github.com/gdpp-dev/gdpp/internal/ui"
)

const guideDir = "guide"

var docsCmd = func() *cobra.Command {
	cmd := commands.GenerateCobraCommand("docs")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return listGuides()
		}
		return showGuide(args[0])
	}
	return cmd
}()

type guideJSON struct {
	Topic    string   `json:"topic"`
	Title    string   `json:"title"`
	Sections []string `json:"sections,omitempty"`
	Content  string   `json:"content,omitempty"`
}

func guideTopics() ([]guideJSON, error) {
	entries, err := fs.ReadDir(docs.FS, guideDir)
	if err != nil {
		return nil, err
	}
	var out []guideJSON
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".md" {
			continue
		}
		content, err := fs.ReadFile(docs.FS, path.Join(guideDir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, guideJSON{
			Topic: strings.TrimSuffix(e.Name(), ".md"),
			Title: guideTitle(string(content)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

// guideHeadings returns the text of every heading in a guide, keyed by level
// in document order. Headings inside code blocks are not seen.
func guideHeadings(content string) []guideHeading {
	src := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var out []guideHeading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		if title := strings.TrimSpace(b.String()); title != "" {
			out = append(out, guideHeading{Level: heading.Level, Text: title})
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

type guideHeading struct {
	Level int
	Text  string
}

// guideTitle returns the first top-level heading of a guide.
func guideTitle(content string) string {
	for _, h := range guideHeadings(content) {
		if h.Level == 1 {
			return h.Text
		}
	}
	return ""
}

func guideSections(content string) []string {
	var out []string
	for _, h := range guideHeadings(content) {
		if h.Level == 2 {
			out = append(out, h.Text)
		}
	}
	return out
}

func listGuides() error {
	topics, err := guideTopics()
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"topics": topics})
		return nil
	}
	fmt.Println(ui.Header("Guides"))
	for _, g := range topics {
		fmt.Printf("  %-10s %s\n", ui.Name(g.Topic), g.Title)
	}
	fmt.Println(ui.Hint("\nRun 'gdpp docs <topic>' to read one."))
	return nil
}

func showGuide(topic string) error {
	content, err := fs.ReadFile(docs.FS, path.Join(guideDir, path.Base(topic)+".md"))
	if err != nil {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("unknown guide %q", topic), "Run 'gdpp docs' to list the guides")
	}

	if isJSONOutput() {
		outputSuccess(guideJSON{
			Topic:    topic,
			Title:    guideTitle(string(content)),
			Sections: guideSections(string(content)),
			Content:  string(content),
		})
		return nil
	}
	fmt.Print(ui.Stdout().Markdown(string(content)))
	return nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
