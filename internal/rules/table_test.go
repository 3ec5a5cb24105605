package rules_test

import (
	"strings"
	"testing"

	"foldersort/internal/rules"
)

func TestLookupFirstMatchWins(t *testing.T) {
	table, err := rules.New([]rules.Rule{
		{Category: "Images", Extensions: []string{".jpg", ".png"}},
		{Category: "Photos", Extensions: []string{".jpg", ".raw"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		ext  string
		want string
		ok   bool
	}{
		{ext: ".jpg", want: "Images", ok: true},
		{ext: ".png", want: "Images", ok: true},
		{ext: ".raw", want: "Photos", ok: true},
		{ext: ".JPG", ok: false},
		{ext: "", ok: false},
		{ext: ".txt", ok: false},
	}
	for _, tc := range cases {
		got, ok := table.Lookup(tc.ext)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("Lookup(%q) = %q, %v; want %q, %v", tc.ext, got, ok, tc.want, tc.ok)
		}
	}
}

func TestNewNormalizesExtensions(t *testing.T) {
	table, err := rules.New([]rules.Rule{
		{Category: " Documents ", Extensions: []string{"PDF", " .Docx ", ".pdf"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := table.Rules()
	if len(got) != 1 || got[0].Category != "Documents" {
		t.Fatalf("unexpected rules: %#v", got)
	}
	if strings.Join(got[0].Extensions, ",") != ".pdf,.docx" {
		t.Fatalf("unexpected extensions: %v", got[0].Extensions)
	}
	if category, ok := table.Lookup(".docx"); !ok || category != "Documents" {
		t.Fatalf("expected .docx to resolve to Documents, got %q %v", category, ok)
	}
}

func TestNewRejectsInvalidRules(t *testing.T) {
	cases := map[string][]rules.Rule{
		"empty category":     {{Category: "  ", Extensions: []string{".a"}}},
		"category separator": {{Category: "a/b", Extensions: []string{".a"}}},
		"dot category":       {{Category: "..", Extensions: []string{".a"}}},
		"empty extension":    {{Category: "A", Extensions: []string{""}}},
		"bare dot":           {{Category: "A", Extensions: []string{"."}}},
		"double suffix":      {{Category: "A", Extensions: []string{".tar.gz"}}},
		"path in extension":  {{Category: "A", Extensions: []string{"./x"}}},
		"duplicate category": {
			{Category: "Images", Extensions: []string{".jpg"}},
			{Category: " Images ", Extensions: []string{".png"}},
		},
	}
	for name, input := range cases {
		if _, err := rules.New(input); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRulesReturnsCopy(t *testing.T) {
	table := rules.MustNew([]rules.Rule{{Category: "Images", Extensions: []string{".jpg"}}})
	copied := table.Rules()
	copied[0].Extensions[0] = ".png"
	copied[0].Category = "Other"

	if category, ok := table.Lookup(".jpg"); !ok || category != "Images" {
		t.Fatalf("table mutated through Rules(): %q %v", category, ok)
	}
	if table.Rules()[0].Extensions[0] != ".jpg" {
		t.Fatal("extension slice shared with caller")
	}
}

func TestConflicts(t *testing.T) {
	table := rules.MustNew([]rules.Rule{
		{Category: "Images", Extensions: []string{".jpg", ".svg"}},
		{Category: "Vector", Extensions: []string{".svg"}},
		{Category: "Web", Extensions: []string{".svg", ".html"}},
	})
	conflicts := table.Conflicts()
	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %#v", conflicts)
	}
	c := conflicts[0]
	if c.Extension != ".svg" || c.Winner != "Images" || strings.Join(c.Shadowed, ",") != "Vector,Web" {
		t.Fatalf("unexpected conflict: %#v", c)
	}
}

func TestNormalizeExtension(t *testing.T) {
	if got := rules.NormalizeExtension(".JPG"); got != ".jpg" {
		t.Fatalf("NormalizeExtension(.JPG) = %q", got)
	}
	if got := rules.NormalizeExtension(".ÄÖÜ"); got != ".äöü" {
		t.Fatalf("NormalizeExtension(.ÄÖÜ) = %q", got)
	}
}

func TestDefaultTable(t *testing.T) {
	table := rules.Default()
	if table.Len() == 0 {
		t.Fatal("expected built-in rules")
	}
	if category, ok := table.Lookup(".jpg"); !ok || category != "Images" {
		t.Fatalf("expected .jpg in Images, got %q %v", category, ok)
	}
	if len(table.Conflicts()) != 0 {
		t.Fatalf("built-in rules should not conflict: %#v", table.Conflicts())
	}
}

func TestNilTable(t *testing.T) {
	var table *rules.Table
	if _, ok := table.Lookup(".jpg"); ok {
		t.Fatal("nil table should not match")
	}
	if table.Len() != 0 || table.Rules() != nil || table.Categories() != nil {
		t.Fatal("nil table should be empty")
	}
}
