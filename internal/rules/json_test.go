package rules_test

import (
	"strings"
	"testing"

	"foldersort/internal/rules"
)

func TestParseJSONPreservesOrder(t *testing.T) {
	input := `{
  "Videos": [".mp4"],
  "Images": [".jpg", ".png"],
  "Documents": [".pdf", ".docx"],
  "Archives": []
}`
	parsed, err := rules.ParseJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	var names []string
	for _, rule := range parsed {
		names = append(names, rule.Category)
	}
	if strings.Join(names, ",") != "Videos,Images,Documents,Archives" {
		t.Fatalf("unexpected order: %v", names)
	}
	if strings.Join(parsed[1].Extensions, ",") != ".jpg,.png" {
		t.Fatalf("unexpected extensions: %v", parsed[1].Extensions)
	}
}

func TestParseJSONErrors(t *testing.T) {
	for _, input := range []string{
		``,
		`[]`,
		`{"Images": ".jpg"}`,
		`{"Images": [".jpg"]`,
	} {
		if _, err := rules.ParseJSON(strings.NewReader(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestParseJSONDuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	input := `{"Images": [".jpg"], "Docs": [".png"], "Images": [".png"]}`
	parsed, err := rules.ParseJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(parsed) != 2 || parsed[0].Category != "Images" || parsed[1].Category != "Docs" {
		t.Fatalf("unexpected rules: %#v", parsed)
	}
	if strings.Join(parsed[0].Extensions, ",") != ".png" {
		t.Fatalf("expected last value for Images, got %v", parsed[0].Extensions)
	}

	table, err := rules.New(parsed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := table.Lookup(".jpg"); ok {
		t.Fatal(".jpg should be unclassified after Images was redefined")
	}
	if category, _ := table.Lookup(".png"); category != "Images" {
		t.Fatalf("Lookup(.png) = %q, want Images", category)
	}
}
