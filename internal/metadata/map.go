package metadata

import "sort"

// Map is a flat tag-name to tag-value mapping. Keys are unique; order is not
// meaningful.
type Map map[string]string

// Row is one line of a two-column metadata listing.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Rows returns the mapping as key/value rows sorted by key.
func (m Map) Rows() []Row {
	rows := make([]Row, 0, len(m))
	for k, v := range m {
		rows = append(rows, Row{Key: k, Value: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// Get returns the value for key, or def when the key is absent.
func (m Map) Get(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// Clone returns an independent copy.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
