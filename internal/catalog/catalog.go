// Package catalog holds the marketplace's known model slugs, grouped by make.
// It is loaded once at startup and read-only afterwards.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Entry is one marketplace model as listed in the mapping file
type Entry struct {
	MakeName string `json:"make_name"`
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug"`
}

// File is the on-disk mapping format
type File struct {
	Models []Entry `json:"models"`
}

// EntrySource lists catalog entries from a backing store
type EntrySource interface {
	ListModels(ctx context.Context) ([]Entry, error)
}

// Catalog indexes model slugs by lowercase make name
type Catalog struct {
	LoadedAt time.Time
	Source   string
	entries  []Entry
	byMake   map[string][]string
}

// New builds a catalog from entries. Entries without a make or slug are
// dropped; slugs keep their input order within a make.
func New(source string, entries []Entry) *Catalog {
	c := &Catalog{
		LoadedAt: time.Now(),
		Source:   source,
		byMake:   make(map[string][]string),
	}

	for _, e := range entries {
		key := makeKey(e.MakeName)
		if key == "" || e.Slug == "" {
			continue
		}
		c.entries = append(c.entries, e)
		c.byMake[key] = append(c.byMake[key], e.Slug)
	}

	return c
}

// LoadFile reads the JSON mapping file
func LoadFile(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", filename, err)
	}

	return New("file:"+filename, f.Models), nil
}

// Load reads every entry from src
func Load(ctx context.Context, name string, src EntrySource) (*Catalog, error) {
	entries, err := src.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog models: %w", err)
	}
	return New(name, entries), nil
}

// ModelSlugs returns the known slugs for a make (case-insensitive). The
// returned slice is a copy.
func (c *Catalog) ModelSlugs(makeName string) []string {
	slugs := c.byMake[makeKey(makeName)]
	return append([]string(nil), slugs...)
}

// Entries returns a copy of every catalog entry
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// MakeCount returns the number of distinct makes
func (c *Catalog) MakeCount() int {
	return len(c.byMake)
}

// Len returns the number of model slugs
func (c *Catalog) Len() int {
	return len(c.entries)
}

func makeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
