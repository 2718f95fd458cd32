package topics

import "strings"

// Entry pairs a subcategory with its main category.
type Entry struct {
	Sub  string `json:"sub_category"`
	Main string `json:"main_category"`
}

// Catalog maps subcategory names to main categories. It is immutable once
// built and safe for concurrent reads.
type Catalog struct {
	keys  []string
	mains map[string]string
}

// NewCatalog builds a catalog from raw entries. Both names are trimmed,
// entries with a blank subcategory are skipped, a repeated subcategory keeps
// its first position but takes the last main category.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{mains: make(map[string]string, len(entries))}
	for _, e := range entries {
		sub := strings.TrimSpace(e.Sub)
		if sub == "" {
			continue
		}
		if _, seen := c.mains[sub]; !seen {
			c.keys = append(c.keys, sub)
		}
		c.mains[sub] = strings.TrimSpace(e.Main)
	}
	return c
}

// Len returns the number of distinct subcategories.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Keys returns subcategory names in first-insertion order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Main resolves a subcategory to its main category, or "" when unknown.
func (c *Catalog) Main(sub string) string {
	if c == nil || sub == "" {
		return ""
	}
	return c.mains[sub]
}

// Entries returns the catalog in key order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, Entry{Sub: k, Main: c.mains[k]})
	}
	return out
}
