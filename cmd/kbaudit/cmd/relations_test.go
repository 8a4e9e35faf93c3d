package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationsCommandStructure(t *testing.T) {
	assert.Equal(t, "relations", relationsCmd.Use)
	assert.NotEmpty(t, relationsCmd.Short)
	assert.NotNil(t, relationsCmd.RunE)
}

func TestRunRelations(t *testing.T) {
	out := captureOutput(t)

	require.NoError(t, runRelations(relationsCmd, nil))

	output := out.String()
	assert.Contains(t, output, "  [1] positions | career/positions.json.company_id -> career/companies.json.id\n")
	assert.Contains(t, output, "  [3] courses | career/courses.json.associated_education_id -> career/education.json.id\n")
	assert.Contains(t, output, "[Resolution Order]\n")
	assert.Contains(t, output, "  [1] career/companies.json (root)\n")
	assert.Contains(t, output, "  [2] career/education.json (root)\n")
	assert.Contains(t, output, "  [3] career/courses.json | FK: associated_education_id -> career/education.json.id\n")
	assert.Contains(t, output, "  [5] career/projects.json | FK: position_id -> career/positions.json.id\n")
	assert.Contains(t, output, "\n5 collections, 3 relations\n")
}
