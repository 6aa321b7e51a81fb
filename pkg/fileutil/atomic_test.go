package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestAtomicWriteFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{"markdown", []byte("# review\n\nBe terse.\n"), 0o644},
		{"empty data", []byte{}, 0o644},
		{"private", []byte("secret"), 0o600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")

			if err := AtomicWriteFile(path, tt.data, tt.perm); err != nil {
				t.Fatalf("AtomicWriteFile() error = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading file: %v", err)
			}
			if string(got) != string(tt.data) {
				t.Errorf("content = %q, want %q", got, tt.data)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stating file: %v", err)
			}
			if gotPerm := info.Mode().Perm(); gotPerm != tt.perm {
				t.Errorf("permissions = %o, want %o", gotPerm, tt.perm)
			}
		})
	}
}

func TestAtomicWriteFile_DirectoryNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "file.txt")

	if err := AtomicWriteFile(path, []byte("x"), 0o644); err == nil {
		t.Error("expected error for missing parent directory")
	}
}

func TestAtomicWriteFile_OverwriteLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.md")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWriteFile(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".pmx-atomic-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestAtomicWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	in := map[string]string{"agent": "claude"}

	if err := AtomicWriteJSON(path, in); err != nil {
		t.Fatalf("AtomicWriteJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(data), "}\n") {
		t.Errorf("expected trailing newline, got %q", data)
	}

	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out["agent"] != "claude" {
		t.Errorf("agent = %q, want claude", out["agent"])
	}
}

func TestAtomicWriteTOML(t *testing.T) {
	type agents struct {
		DisableClaude bool `toml:"disable_claude"`
	}
	type doc struct {
		Agents agents `toml:"agents"`
	}

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := AtomicWriteTOML(path, doc{Agents: agents{DisableClaude: true}}); err != nil {
		t.Fatalf("AtomicWriteTOML() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[agents]") {
		t.Errorf("missing table header in %q", data)
	}

	var out doc
	if err := toml.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid TOML: %v", err)
	}
	if !out.Agents.DisableClaude {
		t.Error("disable_claude did not survive the write")
	}
}
