package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/kbaudit/internal/audit"
)

var fixtureCollections = map[string]string{
	"career/companies.json": `[{"id": "acme", "name": "Acme Corp"}]`,
	"career/positions.json": `[{"id": "pos-a", "company_id": "acme"}]`,
	"career/projects.json":  `[{"id": "proj-a", "position_id": "pos-a"}]`,
	"career/education.json": `[{"id": "edu-a", "school": "State University"}]`,
	"career/courses.json":   `[{"id": "course-a", "associated_education_id": "edu-a"}]`,
}

// writeCorpus writes a passing knowledge base under a new temp dir.
// overrides replaces or adds documents; an empty value deletes one.
func writeCorpus(t *testing.T, overrides map[string]string) string {
	t.Helper()
	root := t.TempDir()

	files := make(map[string]string)
	for _, id := range audit.ExpectedDocuments() {
		files[id] = `{"summary": "Generalized professional detail"}`
	}
	for id, raw := range fixtureCollections {
		files[id] = raw
	}
	for id, raw := range overrides {
		if raw == "" {
			delete(files, id)
			continue
		}
		files[id] = raw
	}

	for id, raw := range files {
		path := filepath.Join(root, filepath.FromSlash(id))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	}
	return root
}

// withFlags sets the package-level flag variables for one test.
func withFlags(t *testing.T, root string) {
	t.Helper()
	saved := []any{cfgFile, corpusRoot, logLevel, logFormat, noColor, metricsFile, record}
	t.Cleanup(func() {
		cfgFile = saved[0].(string)
		corpusRoot = saved[1].(string)
		logLevel = saved[2].(string)
		logFormat = saved[3].(string)
		noColor = saved[4].(bool)
		metricsFile = saved[5].(string)
		record = saved[6].(bool)
	})

	cfgFile = filepath.Join(t.TempDir(), "absent.yaml")
	corpusRoot = root
	logLevel = "error"
	logFormat = ""
	noColor = true
	metricsFile = ""
	record = false
}

// captureOutput redirects the report writer for one test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	setOutputWriter(&buf)
	t.Cleanup(resetOutputWriter)
	return &buf
}
