package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	jsoniter "github.com/json-iterator/go"

	"github.com/dbsmedya/kbaudit/internal/config"
	"github.com/dbsmedya/kbaudit/internal/logger"
)

// jsonAPI decodes numbers as json.Number so ids keep their textual form,
// and rejects trailing content after the top-level value.
var jsonAPI = jsoniter.Config{
	EscapeHTML: true,
	UseNumber:  true,
}.Froze()

// LoadError reports a corpus that could not be read at all.
type LoadError struct {
	Root string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load corpus from %q: %v", e.Root, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads a knowledge base directory into a Corpus.
type Loader struct {
	root    string
	fsys    fs.FS
	include string
	exclude []string
	logger  *logger.Logger
}

// NewLoader creates a loader for the configured corpus location.
func NewLoader(cfg *config.CorpusConfig, log *logger.Logger) *Loader {
	return NewFSLoader(cfg.Root, os.DirFS(cfg.Root), cfg.Include, cfg.Exclude, log)
}

// NewFSLoader creates a loader over an arbitrary file system. root is only
// used for messages.
func NewFSLoader(root string, fsys fs.FS, include string, exclude []string, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.NewDefault()
	}
	if include == "" {
		include = "**/*.json"
	}
	return &Loader{
		root:    root,
		fsys:    fsys,
		include: include,
		exclude: exclude,
		logger:  log,
	}
}

// Load reads every included, non-excluded file. Undecodable files become
// KindMalformed documents; only an unreadable root or file is an error.
func (l *Loader) Load(ctx context.Context) (*Corpus, error) {
	info, err := fs.Stat(l.fsys, ".")
	if err != nil {
		return nil, &LoadError{Root: l.root, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Root: l.root, Err: errors.New("not a directory")}
	}

	paths, err := doublestar.Glob(l.fsys, l.include, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &LoadError{Root: l.root, Err: fmt.Errorf("include pattern %q: %w", l.include, err)}
	}

	docs := make([]*Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		excluded, err := l.isExcluded(p)
		if err != nil {
			return nil, &LoadError{Root: l.root, Err: err}
		}
		if excluded {
			l.logger.Debugw("Skipping excluded document", "document", p)
			continue
		}

		raw, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return nil, &LoadError{Root: l.root, Err: fmt.Errorf("read %s: %w", p, err)}
		}

		doc := Decode(p, raw)
		if doc.Value.Kind == KindMalformed {
			l.logger.WithDocument(p).Warnf("Malformed document: %v", doc.Value.Err)
		}
		docs = append(docs, doc)
	}

	c := New(docs...)
	l.logger.Infow("Corpus loaded", "root", l.root, "documents", c.Len())
	return c, nil
}

func (l *Loader) isExcluded(p string) (bool, error) {
	for _, pattern := range l.exclude {
		matched, err := doublestar.Match(pattern, p)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// Decode builds a Document from raw file content.
func Decode(id string, raw []byte) *Document {
	doc := &Document{ID: id, Raw: string(raw)}

	if len(bytes.TrimSpace(raw)) == 0 {
		doc.Value = Value{Kind: KindMalformed, Err: errors.New("document is empty")}
		return doc
	}

	// Unmarshal with UseNumber accepts loose number tokens such as "01" or
	// "1."; Valid does not.
	var v any
	err := jsonAPI.Unmarshal(raw, &v)
	if err == nil && !jsonAPI.Valid(raw) {
		err = errors.New("invalid JSON syntax")
	}
	if err != nil {
		doc.Value = Value{Kind: KindMalformed, Err: err}
		return doc
	}

	switch t := v.(type) {
	case []any:
		doc.Value = Value{Kind: KindSequence, Items: t}
	case map[string]any:
		doc.Value = Value{Kind: KindObject, Object: Record(t)}
	default:
		doc.Value = Value{
			Kind: KindMalformed,
			Err:  fmt.Errorf("top-level value is %T, expected array or object", v),
		}
	}
	return doc
}
