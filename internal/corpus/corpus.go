package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Corpus is an immutable set of documents keyed by id.
type Corpus struct {
	docs map[string]*Document
	ids  []string
}

// New builds a Corpus from documents. A later document with the same id
// replaces an earlier one.
func New(docs ...*Document) *Corpus {
	c := &Corpus{docs: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		c.docs[d.ID] = d
	}
	c.ids = make([]string, 0, len(c.docs))
	for id := range c.docs {
		c.ids = append(c.ids, id)
	}
	sort.Strings(c.ids)
	return c
}

// IDs returns document ids in lexicographic order.
func (c *Corpus) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Documents returns documents in id order.
func (c *Corpus) Documents() []*Document {
	out := make([]*Document, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.docs[id])
	}
	return out
}

// Get returns the document with the given id, or nil.
func (c *Corpus) Get(id string) *Document {
	return c.docs[id]
}

// Has reports whether a document with the given id was loaded.
func (c *Corpus) Has(id string) bool {
	_, ok := c.docs[id]
	return ok
}

// Len returns the number of documents.
func (c *Corpus) Len() int {
	return len(c.ids)
}

// Collection returns the records of a sequence document.
// ok is false when the document is absent or not a sequence.
func (c *Corpus) Collection(id string) ([]Record, bool) {
	d := c.docs[id]
	if d == nil || !d.IsCollection() {
		return nil, false
	}
	return d.Value.Records(), true
}

// Fingerprint returns a SHA-256 digest over every (id, raw text) pair in
// id order. Two corpora with the same files and contents share it.
func (c *Corpus) Fingerprint() string {
	h := sha256.New()
	for _, id := range c.ids {
		h.Write([]byte(id))
		h.Write([]byte{0})
		h.Write([]byte(c.docs[id].Raw))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
