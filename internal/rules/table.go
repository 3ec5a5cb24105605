package rules

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rule pairs a category with the extensions routed to it.
type Rule struct {
	Category   string   `json:"category" toml:"category"`
	Extensions []string `json:"extensions" toml:"extensions"`
}

// Table is an immutable, ordered rule set.
type Table struct {
	rules []Rule
	index map[string]string
}

// New normalizes and copies the given rules. Order is preserved.
func New(input []Rule) (*Table, error) {
	t := &Table{
		rules: make([]Rule, 0, len(input)),
		index: make(map[string]string),
	}
	categories := make(map[string]int, len(input))
	for i, rule := range input {
		category := strings.TrimSpace(rule.Category)
		if category == "" {
			return nil, fmt.Errorf("rules[%d].category must be set", i)
		}
		if strings.ContainsAny(category, `/\`) || category == "." || category == ".." {
			return nil, fmt.Errorf("rules[%d].category %q is not a valid folder name", i, category)
		}
		if prev, dup := categories[category]; dup {
			return nil, fmt.Errorf("rules[%d].category %q already defined at rules[%d]", i, category, prev)
		}
		categories[category] = i
		exts := make([]string, 0, len(rule.Extensions))
		seen := make(map[string]struct{}, len(rule.Extensions))
		for j, raw := range rule.Extensions {
			ext, err := normalize(raw)
			if err != nil {
				return nil, fmt.Errorf("rules[%d].extensions[%d]: %w", i, j, err)
			}
			if _, dup := seen[ext]; dup {
				continue
			}
			seen[ext] = struct{}{}
			exts = append(exts, ext)
			if _, taken := t.index[ext]; !taken {
				t.index[ext] = category
			}
		}
		t.rules = append(t.rules, Rule{Category: category, Extensions: exts})
	}
	return t, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(input []Rule) *Table {
	t, err := New(input)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the category of the first rule containing ext. The caller is
// expected to pass an already-lowercased extension with its leading dot.
func (t *Table) Lookup(ext string) (string, bool) {
	if t == nil {
		return "", false
	}
	category, ok := t.index[ext]
	return category, ok
}

// Rules returns a copy of the ordered rule list.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}
	out := make([]Rule, len(t.rules))
	for i, rule := range t.rules {
		out[i] = Rule{Category: rule.Category, Extensions: append([]string(nil), rule.Extensions...)}
	}
	return out
}

// Categories lists category names in table order.
func (t *Table) Categories() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.rules))
	for i, rule := range t.rules {
		names[i] = rule.Category
	}
	return names
}

// Len reports the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}

// Conflict describes an extension claimed by more than one category.
type Conflict struct {
	Extension string   `json:"extension"`
	Winner    string   `json:"winner"`
	Shadowed  []string `json:"shadowed"`
}

// Conflicts reports extensions listed under several categories, in table order.
// Only the first category ever receives such files.
func (t *Table) Conflicts() []Conflict {
	if t == nil {
		return nil
	}
	var (
		out   []Conflict
		byExt = make(map[string]int)
	)
	for _, rule := range t.rules {
		for _, ext := range rule.Extensions {
			winner := t.index[ext]
			if winner == rule.Category {
				continue
			}
			pos, ok := byExt[ext]
			if !ok {
				out = append(out, Conflict{Extension: ext, Winner: winner})
				pos = len(out) - 1
				byExt[ext] = pos
			}
			out[pos].Shadowed = append(out[pos].Shadowed, rule.Category)
		}
	}
	return out
}

var errEmptyExtension = errors.New("extension must not be empty")

// NormalizeExtension lowercases ext. It does not add or strip the dot; use it
// on extensions split from real file names.
func NormalizeExtension(ext string) string {
	return cases.Lower(language.Und).String(ext)
}

func normalize(raw string) (string, error) {
	ext := strings.TrimSpace(raw)
	if ext == "" {
		return "", errEmptyExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "." {
		return "", errEmptyExtension
	}
	if strings.ContainsAny(ext, `/\`) || strings.Count(ext, ".") > 1 {
		return "", fmt.Errorf("extension %q must be a single suffix like \".jpg\"", raw)
	}
	return NormalizeExtension(ext), nil
}
