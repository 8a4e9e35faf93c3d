package graph

import (
	"fmt"
)

// Builder constructs a relationship graph from relation declarations.
type Builder struct {
	relations []Relation
}

// NewBuilder creates a new graph builder for the given relations.
func NewBuilder(relations []Relation) *Builder {
	return &Builder{relations: relations}
}

// Build validates every relation and constructs the graph.
// It fails on incomplete declarations, repeated foreign keys and cycles.
func (b *Builder) Build() (*Graph, error) {
	g := NewGraph()
	seen := make(map[string]string) // source/field -> relation name

	for i, rel := range b.relations {
		if rel.Name == "" {
			return nil, fmt.Errorf("relation %d has no name", i)
		}
		if rel.Source == "" || rel.Target == "" {
			return nil, fmt.Errorf("relation %q must name both source and target collections", rel.Name)
		}
		if rel.Field == "" {
			return nil, fmt.Errorf("foreign key is not specified for relation %q", rel.Name)
		}

		key := rel.Source + "/" + rel.Field
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate relation: %s.%s declared by %q and %q", rel.Source, rel.Field, other, rel.Name)
		}
		seen[key] = rel.Name

		refKey := rel.TargetKey
		if refKey == "" {
			refKey = "id"
		}

		g.AddEdgeWithMeta(rel.Target, rel.Source, &EdgeMeta{
			Name:         rel.Name,
			ForeignKey:   rel.Field,
			ReferenceKey: refKey,
		})
	}

	if _, err := g.ResolutionOrder(); err != nil {
		return nil, fmt.Errorf("graph validation failed: %w", err)
	}

	return g, nil
}

// BuildFromRelations is a convenience function that builds a graph directly.
func BuildFromRelations(relations []Relation) (*Graph, error) {
	return NewBuilder(relations).Build()
}
