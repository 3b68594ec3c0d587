package cli

import "testing"

func TestDocsListsGuides(t *testing.T) {
	useJSONProject(t, t.TempDir())

	resp, err := runJSON(t, func() error { return docsCmd.RunE(docsCmd, nil) })
	if err != nil || !resp.OK {
		t.Fatalf("docs = %v %+v", err, resp.Error)
	}
	topics, _ := resp.Data["topics"].([]interface{})
	if len(topics) != 3 {
		t.Fatalf("expected 3 guides, got %v", topics)
	}
	first, _ := topics[0].(map[string]interface{})
	if first["topic"] != "profiles" || first["title"] != "Build profiles" {
		t.Fatalf("unexpected first guide %v", first)
	}
}

func TestDocsShowsGuide(t *testing.T) {
	useJSONProject(t, t.TempDir())

	resp, err := runJSON(t, func() error { return docsCmd.RunE(docsCmd, []string{"rename"}) })
	if err != nil || !resp.OK || resp.Data["title"] != "Renaming the plugin" {
		t.Fatalf("docs rename = %v %+v", err, resp)
	}

	resp, _ = runJSON(t, func() error { return docsCmd.RunE(docsCmd, []string{"nope"}) })
	if resp.Error == nil || resp.Error.Code != ErrInvalidInput {
		t.Fatalf("expected %s, got %+v", ErrInvalidInput, resp.Error)
	}
}

func TestGuideHeadingsSkipCode(t *testing.T) {
	content := "# Title\n\n```\n# not a heading\n```\n\n## First\n\ntext\n\n## Second\n"
	if got := guideTitle(content); got != "Title" {
		t.Fatalf("guideTitle = %q", got)
	}
	got := guideSections(content)
	if len(got) != 2 || got[0] != "First" || got[1] != "Second" {
		t.Fatalf("guideSections = %v", got)
	}
}
