package results

import "github.com/kamilpajak/qadoc/pkg/models"

// Groups maps normalized titles to their records. Key order is first-seen
// order and records keep their input order within a group.
type Groups struct {
	keys   []string
	groups map[string][]models.ResultRecord
	total  int
}

// Group buckets records by normalized title without dropping or merging any
func Group(records []models.ResultRecord) *Groups {
	g := &Groups{groups: make(map[string][]models.ResultRecord)}
	for _, r := range records {
		key := NormalizeTitle(r.Title)
		if _, ok := g.groups[key]; !ok {
			g.keys = append(g.keys, key)
		}
		g.groups[key] = append(g.groups[key], r)
		g.total++
	}
	return g
}

// Get returns the records recorded for a catalog title
func (g *Groups) Get(title string) []models.ResultRecord {
	return g.groups[title]
}

// Keys returns normalized titles in first-seen order
func (g *Groups) Keys() []string {
	return append([]string(nil), g.keys...)
}

// Len returns the total number of records across all groups
func (g *Groups) Len() int {
	return g.total
}

// Unmatched returns the group keys that match none of the given titles
func (g *Groups) Unmatched(titles []string) []string {
	known := make(map[string]bool, len(titles))
	for _, t := range titles {
		known[t] = true
	}

	var out []string
	for _, k := range g.keys {
		if !known[k] {
			out = append(out, k)
		}
	}
	return out
}
