package audit

import (
	"github.com/elliotchance/orderedmap/v2"
)

var manifestGroups = []struct {
	group string
	names []string
}{
	{"career", []string{
		"profile", "companies", "positions", "education", "skills", "certifications",
		"projects", "publications", "recommendations", "honors", "volunteering", "courses",
	}},
	{"brand", []string{"identity", "values", "personality", "communication-styles", "brand-narratives"}},
	{"strategy", []string{"job-search", "career-objectives", "audience-frameworks", "target-market"}},
	{"agents", []string{"workflow-architecture", "permissions-matrix", "agent-definitions", "quality-standards"}},
	{"content", []string{"writing-formulas", "message-templates", "platform-constraints"}},
}

// Manifest returns the expected document ids keyed by topic group, in
// declaration order. Each call returns a fresh map.
func Manifest() *orderedmap.OrderedMap[string, []string] {
	m := orderedmap.NewOrderedMap[string, []string]()
	for _, g := range manifestGroups {
		ids := make([]string, 0, len(g.names))
		for _, name := range g.names {
			ids = append(ids, g.group+"/"+name+".json")
		}
		m.Set(g.group, ids)
	}
	return m
}

// ExpectedDocuments flattens Manifest in order.
func ExpectedDocuments() []string {
	var out []string
	m := Manifest()
	for el := m.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value...)
	}
	return out
}
