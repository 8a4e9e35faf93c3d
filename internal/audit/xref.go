package audit

import (
	"fmt"

	"github.com/dbsmedya/kbaudit/internal/corpus"
	"github.com/dbsmedya/kbaudit/internal/graph"
)

// Relations is the fixed table of foreign-key relationships between
// knowledge base collections.
var Relations = []graph.Relation{
	{Name: "positions", Source: "career/positions.json", Field: "company_id", Target: "career/companies.json"},
	{Name: "projects", Source: "career/projects.json", Field: "position_id", Target: "career/positions.json"},
	{Name: "courses", Source: "career/courses.json", Field: "associated_education_id", Target: "career/education.json"},
}

// RelationGraph builds the relationship graph for Relations.
func RelationGraph() (*graph.Graph, error) {
	return graph.BuildFromRelations(Relations)
}

// XrefCheck verifies that references resolve and that collections have
// unique ids.
type XrefCheck struct {
	graph *graph.Graph
}

// NewXrefCheck creates a cross-reference check over g.
func NewXrefCheck(g *graph.Graph) *XrefCheck {
	return &XrefCheck{graph: g}
}

func (*XrefCheck) Name() string  { return "xref" }
func (*XrefCheck) Title() string { return "CROSS-REFERENCE INTEGRITY" }

func (ch *XrefCheck) Run(c *corpus.Corpus) Result {
	diags := ch.danglingReferences(c)
	diags = append(diags, duplicateIDs(c)...)
	return newResult(ch, "All cross-references resolve, no duplicate IDs", diags)
}

func (ch *XrefCheck) danglingReferences(c *corpus.Corpus) []string {
	var diags []string
	for _, edge := range ch.graph.AllEdges() {
		targets, ok := c.Collection(edge.From)
		if !ok {
			continue
		}
		sources, ok := c.Collection(edge.To)
		if !ok {
			continue
		}

		for _, meta := range ch.graph.GetEdgeMeta(edge.From, edge.To) {
			known := make(map[corpus.Key]struct{}, len(targets))
			for _, rec := range targets {
				if key, ok := rec.Field(meta.ReferenceKey); ok {
					known[key] = struct{}{}
				}
			}

			for _, rec := range sources {
				ref, ok := rec.Field(meta.ForeignKey)
				if !ok {
					continue
				}
				if _, found := known[ref]; !found {
					diags = append(diags, fmt.Sprintf("%s: %s \"%s\" missing", meta.Name, meta.ForeignKey, ref))
				}
			}
		}
	}
	return diags
}

func duplicateIDs(c *corpus.Corpus) []string {
	var diags []string
	for _, doc := range c.Documents() {
		if !doc.IsCollection() {
			continue
		}
		seen := make(map[corpus.Key]struct{})
		for _, rec := range doc.Value.Records() {
			key, ok := rec.Identity(corpus.IDField)
			if !ok {
				continue
			}
			if _, dup := seen[key]; dup {
				diags = append(diags, fmt.Sprintf("%s: duplicate id \"%s\"", doc.ID, key))
				continue
			}
			seen[key] = struct{}{}
		}
	}
	return diags
}
