package internal

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/fminject/internal/apperr"
	"github.com/starford/fminject/internal/journal"
	"github.com/starford/fminject/internal/testutil"
)

func testOptions(root string, cfg *Config, stdout *bytes.Buffer) []Option {
	return []Option{
		WithConfig(cfg),
		WithRoot(root),
		WithOutput(stdout, &bytes.Buffer{}),
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background(), WithRoot(t.TempDir())); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRun_RequiresRoot(t *testing.T) {
	if err := Run(context.Background(), WithConfig(NewDefaultConfig())); err == nil {
		t.Fatal("expected error without root")
	}
}

func TestRun_InjectsAndReports(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"my-first-post.md": "Hello\n",
		"keep.md":          "---\ntitle: x\n---\n",
		"skip.txt":         "text",
	})

	var out bytes.Buffer
	if err := Run(context.Background(), testOptions(root, NewDefaultConfig(), &out)...); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := testutil.ReadFile(t, root, "my-first-post.md")
	if !strings.HasPrefix(got, "---\nauthor: Anubhav Gain\n") || !strings.HasSuffix(got, "---\n\nHello\n") {
		t.Errorf("content = %q", got)
	}
	if !strings.Contains(got, "title: My First Post\nslug: my-first-post\n") {
		t.Errorf("content missing title/slug: %q", got)
	}
	report := out.String()
	for _, want := range []string{
		"Added metadata to " + filepath.Join(root, "my-first-post.md"),
		"Skipping " + filepath.Join(root, "keep.md") + ": Metadata already exists",
		"Metadata addition complete.",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRun_ConfiguredTemplate(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.md": "x"})
	cfg := NewDefaultConfig()
	cfg.Metadata.Author = "Jane Doe"
	cfg.Metadata.Tags = []string{"go"}
	cfg.Metadata.Offset = "Z"

	if err := Run(context.Background(), testOptions(root, cfg, &bytes.Buffer{})...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := testutil.ReadFile(t, root, "a.md")
	if !strings.Contains(got, "author: Jane Doe\n") || !strings.Contains(got, "tags:\n- go\ndescription:") {
		t.Errorf("content = %q", got)
	}
	if strings.Contains(got, "+05:30") {
		t.Errorf("offset not applied: %q", got)
	}
}

func TestRun_JournalRecordsRun(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.md": "a", "b.md": "---\n"})
	cfg := NewDefaultConfig()
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")

	if err := Run(context.Background(), testOptions(root, cfg, &bytes.Buffer{})...); err != nil {
		t.Fatalf("Run: %v", err)
	}

	db, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	runs, err := db.RecentRuns(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Updated != 1 || runs[0].Skipped != 1 || runs[0].Root != root {
		t.Errorf("runs = %+v", runs)
	}

	var out bytes.Buffer
	if err := History(context.Background(), 10, testOptions(root, cfg, &out)...); err != nil {
		t.Fatalf("History: %v", err)
	}
	if !strings.Contains(out.String(), root) {
		t.Errorf("history output = %q", out.String())
	}
}

func TestHistory_DisabledJournal(t *testing.T) {
	err := History(context.Background(), 10, testOptions(t.TempDir(), NewDefaultConfig(), &bytes.Buffer{})...)
	if err == nil || !strings.Contains(err.Error(), "journal is disabled") {
		t.Fatalf("err = %v", err)
	}
}

func TestRun_DryRun(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.md": "a"})
	opts := append(testOptions(root, NewDefaultConfig(), &bytes.Buffer{}), WithDryRun(true))
	if err := Run(context.Background(), opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := testutil.ReadFile(t, root, "a.md"); got != "a" {
		t.Errorf("dry run wrote file: %q", got)
	}
}

func TestRun_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if err := Run(context.Background(), testOptions(missing, NewDefaultConfig(), &bytes.Buffer{})...); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestCheck_Classifies(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"ok.md":       "---\ntitle: fine\n---\nbody",
		"missing.md":  "body",
		"broken.md":   "---\ntitle: never closed\n",
		"ignored.txt": "body",
	})

	var out bytes.Buffer
	report, err := Check(context.Background(), testOptions(root, NewDefaultConfig(), &out)...)
	if !errors.Is(err, apperr.ErrMissingFrontmatter) {
		t.Fatalf("err = %v, want ErrMissingFrontmatter", err)
	}
	if len(report.OK) != 1 || len(report.Missing) != 1 || len(report.Malformed) != 1 {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(out.String(), "Missing frontmatter: "+filepath.Join(root, "missing.md")) {
		t.Errorf("output = %q", out.String())
	}
	if got := testutil.ReadFile(t, root, "missing.md"); got != "body" {
		t.Errorf("check modified a file: %q", got)
	}
}

func TestCheck_CleanAfterRun(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"a.md": "a", "sub/b.md": "b"})
	opts := testOptions(root, NewDefaultConfig(), &bytes.Buffer{})
	if err := Run(context.Background(), opts...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	report, err := Check(context.Background(), opts...)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.OK) != 2 {
		t.Errorf("report = %+v", report)
	}
}
