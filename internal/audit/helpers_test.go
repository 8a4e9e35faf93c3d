package audit

import (
	"github.com/dbsmedya/kbaudit/internal/corpus"
)

var cleanCollections = map[string]string{
	"career/companies.json": `[{"id": "acme", "name": "Acme Corp"}, {"id": "globex", "name": "Globex"}]`,
	"career/positions.json": `[{"id": "pos-a", "company_id": "acme", "title": "Engineer"},
		{"id": "pos-b", "company_id": "globex", "title": "Lead"}]`,
	"career/projects.json":  `[{"id": "proj-a", "position_id": "pos-a"}, {"id": "proj-b", "position_id": null}]`,
	"career/education.json": `[{"id": "edu-a", "school": "State University"}]`,
	"career/courses.json":   `[{"id": "course-a", "associated_education_id": "edu-a"}, {"id": "course-b", "associated_education_id": ""}]`,
}

func doc(id, raw string) *corpus.Document {
	return corpus.Decode(id, []byte(raw))
}

// cleanDocs returns every manifest document with content passing all checks.
func cleanDocs() []*corpus.Document {
	var docs []*corpus.Document
	for _, id := range ExpectedDocuments() {
		raw, ok := cleanCollections[id]
		if !ok {
			raw = `{"summary": "Generalized professional detail", "tags": ["focus", "craft"]}`
		}
		docs = append(docs, doc(id, raw))
	}
	return docs
}

// cleanCorpus returns a passing corpus with extra documents added or
// replacing ones of the same id.
func cleanCorpus(extra ...*corpus.Document) *corpus.Corpus {
	return corpus.New(append(cleanDocs(), extra...)...)
}

// cleanCorpusWithout returns a passing corpus minus the named documents.
func cleanCorpusWithout(ids ...string) *corpus.Corpus {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	var docs []*corpus.Document
	for _, d := range cleanDocs() {
		if !drop[d.ID] {
			docs = append(docs, d)
		}
	}
	return corpus.New(docs...)
}

// recorder is an Observer capturing callback order.
type recorder struct {
	started  []int
	finished []Result
}

func (r *recorder) CheckStarted(n int, _ Check) {
	r.started = append(r.started, n)
}

func (r *recorder) CheckFinished(_ int, res Result) {
	r.finished = append(r.finished, res)
}
