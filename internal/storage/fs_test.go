package storage

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/starford/fminject/internal/apperr"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func collect(t *testing.T, s *FS, root string) []string {
	t.Helper()
	var out []string
	for p, err := range s.Markdown(root) {
		if err != nil {
			t.Fatalf("Markdown: %v", err)
		}
		rel, _ := filepath.Rel(root, p)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestMarkdown_NestedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.md":             "a",
		"sub/b.md":         "b",
		"sub/deep/er/c.md": "c",
		"readme.txt":       "not md",
		"data.json":        "{}",
		"upper.MD":         "case sensitive",
	})

	got := collect(t, NewFS(""), root)
	want := []string{"a.md", "sub/b.md", "sub/deep/er/c.md"}
	if !slices.Equal(got, want) {
		t.Errorf("paths = %v, want %v", got, want)
	}
}

func TestMarkdown_CustomExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "", "b.markdown": ""})
	got := collect(t, NewFS(".markdown"), root)
	if !slices.Equal(got, []string{"b.markdown"}) {
		t.Errorf("paths = %v", got)
	}
}

func TestMarkdown_SkipsDirectoriesNamedLikeMarkdown(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "folder.md"), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := collect(t, NewFS(""), root); len(got) != 0 {
		t.Errorf("paths = %v, want none", got)
	}
}

func TestMarkdown_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "", "b.md": "", "c.md": ""})
	n := 0
	for _, err := range NewFS("").Markdown(root) {
		if err != nil {
			t.Fatal(err)
		}
		n++
		if n == 1 {
			break
		}
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}
}

func TestMarkdown_RootNotDirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.md")
	writeTree(t, filepath.Dir(f), map[string]string{"file.md": "x"})
	var gotErr error
	for _, err := range NewFS("").Markdown(f) {
		gotErr = err
	}
	if !errors.Is(gotErr, apperr.ErrNotDirectory) {
		t.Errorf("err = %v, want ErrNotDirectory", gotErr)
	}
}

func TestMarkdown_MissingRoot(t *testing.T) {
	var gotErr error
	for _, err := range NewFS("").Markdown(filepath.Join(t.TempDir(), "missing")) {
		gotErr = err
	}
	if !errors.Is(gotErr, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", gotErr)
	}
}

func TestWriteAndRead(t *testing.T) {
	s := NewFS("")
	p := filepath.Join(t.TempDir(), "note.md")
	content := []byte("# Hello\nWorld\n")
	if err := s.Write(p, content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWrite_PreservesModeAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "atomic.md")
	if err := os.WriteFile(p, []byte("original"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewFS("")
	if err := s.Write(p, []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ".fminject-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := NewFS("").Read(filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}
