package services

import (
	"os"
	"path/filepath"
	"testing"

	"expenses/internal/core"
)

func TestLoadCategories(t *testing.T) {
	t.Run("empty path falls back to defaults", func(t *testing.T) {
		got := LoadCategories("")
		if len(got) != len(core.DefaultCategories) || got[0] != core.DefaultCategories[0] {
			t.Fatalf("expected defaults, got %v", got)
		}
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		got := LoadCategories(filepath.Join(t.TempDir(), "nope.txt"))
		if len(got) != len(core.DefaultCategories) {
			t.Fatalf("expected defaults, got %v", got)
		}
	})

	t.Run("reads file skipping comments and repeats", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "categories.txt")
		content := "# household\nRent\n\n  Groceries  \nRent\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		got := LoadCategories(path)
		if len(got) != 2 || got[0] != "Rent" || got[1] != "Groceries" {
			t.Fatalf("unexpected categories: %v", got)
		}
	})

	t.Run("defaults are not shared", func(t *testing.T) {
		got := LoadCategories("")
		got[0] = "mutated"
		if core.DefaultCategories[0] == "mutated" {
			t.Fatal("LoadCategories must return a copy of the defaults")
		}
	})
}
