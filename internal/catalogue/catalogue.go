// Package catalogue holds the phrase catalogue: an ordered set of named
// categories, each with an ordered list of phrases. The catalogue is loaded
// once at startup and is read-only afterwards; rotation order is insertion
// order.
package catalogue

import (
	"fmt"
	"strings"
)

// Category is a named, ordered group of phrases.
type Category struct {
	Name    string   `yaml:"name"`
	Phrases []string `yaml:"phrases"`
}

// Catalogue is the ordered collection of all categories.
type Catalogue struct {
	categories []Category
}

// New validates the given categories and builds a Catalogue.
// An empty catalogue, an unnamed category, a category without phrases or a
// blank phrase are configuration errors and are rejected here, before the
// main loop ever runs.
func New(categories []Category) (*Catalogue, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("catalogue has no categories")
	}

	seen := make(map[string]struct{}, len(categories))
	for i, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}
		if _, dup := seen[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		seen[cat.Name] = struct{}{}

		if len(cat.Phrases) == 0 {
			return nil, fmt.Errorf("category %q has no phrases", cat.Name)
		}
		for j, phrase := range cat.Phrases {
			if strings.TrimSpace(phrase) == "" {
				return nil, fmt.Errorf("category %q phrase %d is blank", cat.Name, j)
			}
		}
	}

	// Copy so callers cannot mutate the catalogue behind our back.
	own := make([]Category, len(categories))
	for i, cat := range categories {
		own[i] = Category{
			Name:    cat.Name,
			Phrases: append([]string(nil), cat.Phrases...),
		}
	}

	return &Catalogue{categories: own}, nil
}

// Len returns the number of categories.
func (c *Catalogue) Len() int {
	return len(c.categories)
}

// Category returns the category at index i (0 <= i < Len()).
func (c *Catalogue) Category(i int) Category {
	return c.categories[i]
}

// TotalPhrases returns the number of phrases across all categories.
func (c *Catalogue) TotalPhrases() int {
	total := 0
	for _, cat := range c.categories {
		total += len(cat.Phrases)
	}
	return total
}
