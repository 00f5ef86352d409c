package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/deckfold/deckfold/internal/service"
)

func setupCLI(t *testing.T) (*CLI, string) {
	tempDir, err := os.MkdirTemp("", "deckfold-cli-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })
	t.Setenv("DECKFOLD_DIR", tempDir)

	svc, err := service.NewService()
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	return NewCLI(svc), tempDir
}

func writeDeck(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write deck: %v", err)
	}
	return path
}

func TestExecuteCommandUnknown(t *testing.T) {
	c, _ := setupCLI(t)
	if err := c.ExecuteCommand([]string{"frobnicate"}); err == nil {
		t.Error("Expected error for unknown command")
	}
}

func TestBuildCommand(t *testing.T) {
	c, tempDir := setupCLI(t)
	path := writeDeck(t, tempDir, "talk.md", "# A\n\n---\n\n# B\n")

	if err := c.ExecuteCommand([]string{"build", path}); err != nil {
		t.Errorf("build failed: %v", err)
	}
	if err := c.ExecuteCommand([]string{"build"}); err == nil {
		t.Error("build without a file should fail")
	}
	if err := c.ExecuteCommand([]string{"build", "/nonexistent.md"}); err == nil {
		t.Error("build of a missing file should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	c, tempDir := setupCLI(t)
	path := writeDeck(t, tempDir, "talk.md", "# A\n\nHello.\n")

	if err := c.ExecuteCommand([]string{"render", path, "1"}); err != nil {
		t.Errorf("render failed: %v", err)
	}
	if err := c.ExecuteCommand([]string{"render", path, "5"}); err == nil {
		t.Error("render past the deck should fail")
	}
	if err := c.ExecuteCommand([]string{"render", path, "zero"}); err == nil {
		t.Error("render with a bad number should fail")
	}
}

func TestExportCommand(t *testing.T) {
	c, tempDir := setupCLI(t)
	path := writeDeck(t, tempDir, "talk.md", "# A\n\nHello.\n")

	outDir := filepath.Join(tempDir, "site")
	if err := c.ExecuteCommand([]string{"export", path, "--output", outDir}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "index.html")); err != nil {
		t.Errorf("Expected exported index.html: %v", err)
	}
}

func TestImportCommand(t *testing.T) {
	c, tempDir := setupCLI(t)
	src := writeDeck(t, tempDir, "notes.md", "# Notes\n\n## A\n\ntext\n")

	if err := c.ExecuteCommand([]string{"import", src}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "decks", "notes.md")); err != nil {
		t.Errorf("Expected imported deck in library: %v", err)
	}
}

func TestListCommand(t *testing.T) {
	c, tempDir := setupCLI(t)
	if err := os.MkdirAll(filepath.Join(tempDir, "decks"), 0755); err != nil {
		t.Fatalf("Failed to create decks dir: %v", err)
	}
	writeDeck(t, filepath.Join(tempDir, "decks"), "a.md", "# A\n")

	if err := c.ExecuteCommand([]string{"list"}); err != nil {
		t.Errorf("list failed: %v", err)
	}
	if err := c.ExecuteCommand([]string{"list", "--format", "json"}); err != nil {
		t.Errorf("list --format json failed: %v", err)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--format", "json"}, "json"},
		{[]string{"-f", "table"}, "table"},
		{[]string{"--format=json"}, "json"},
		{[]string{"--format"}, ""},
		{[]string{}, ""},
	}
	for _, tt := range tests {
		if got := flagValue(tt.args, "--format", "-f"); got != tt.want {
			t.Errorf("flagValue(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
