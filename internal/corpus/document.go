// Package corpus holds the read-only snapshot of knowledge base documents
// that every audit check inspects.
package corpus

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Kind tags the decoded shape of a document.
type Kind int

const (
	// KindMalformed marks content that is not a JSON array or object.
	KindMalformed Kind = iota
	// KindSequence marks a JSON array (a collection).
	KindSequence
	// KindObject marks a single JSON object.
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	default:
		return "malformed"
	}
}

// Record is one decoded JSON object.
type Record map[string]any

// IDField is the identity field of id-bearing collections.
const IDField = "id"

// Value is the decoded form of a document.
//
// Exactly one of Items or Object is meaningful, selected by Kind.
// Err is set only for KindMalformed.
type Value struct {
	Kind   Kind
	Items  []any
	Object Record
	Err    error
}

// Records returns the elements of a sequence that are JSON objects.
// Non-sequence values have no records.
func (v Value) Records() []Record {
	if v.Kind != KindSequence {
		return nil
	}
	records := make([]Record, 0, len(v.Items))
	for _, item := range v.Items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, Record(m))
		}
	}
	return records
}

// Len returns the number of sequence items or object fields.
func (v Value) Len() int {
	switch v.Kind {
	case KindSequence:
		return len(v.Items)
	case KindObject:
		return len(v.Object)
	default:
		return 0
	}
}

// Document is one file of the knowledge base.
type Document struct {
	ID    string // slash-separated path relative to the corpus root
	Raw   string
	Value Value
}

// IsCollection reports whether the document decoded to a JSON array.
func (d *Document) IsCollection() bool {
	return d.Value.Kind == KindSequence
}

// KeyKind tags the JSON type a Key was built from.
type KeyKind int

const (
	KeyString KeyKind = iota
	KeyNumber
	KeyBool
	KeyNull
	KeyComposite
)

// Key is the comparable identity of a JSON value used as an id or a
// reference. A string "7" and the number 7 are different keys; numbers
// compare by value, so 1, 1.0 and 1e0 are the same key.
type Key struct {
	Text string
	Kind KeyKind
}

func (k Key) String() string {
	return k.Text
}

// IdentityOf converts any decoded JSON value into a Key, including null
// and the empty string.
func IdentityOf(v any) Key {
	switch t := v.(type) {
	case nil:
		return Key{Text: "null", Kind: KeyNull}
	case string:
		return Key{Text: t}
	case json.Number:
		return Key{Text: canonicalNumber(t.String()), Kind: KeyNumber}
	case float64:
		return Key{Text: strconv.FormatFloat(t, 'f', -1, 64), Kind: KeyNumber}
	case bool:
		return Key{Text: strconv.FormatBool(t), Kind: KeyBool}
	default:
		return Key{Text: fmt.Sprint(t), Kind: KeyComposite}
	}
}

// KeyOf converts a decoded JSON value into a reference Key. ok is false for
// values that carry no reference: null, the empty string, and false.
func KeyOf(v any) (Key, bool) {
	switch t := v.(type) {
	case nil:
		return Key{}, false
	case string:
		if t == "" {
			return Key{}, false
		}
	case bool:
		if !t {
			return Key{}, false
		}
	}
	return IdentityOf(v), true
}

// maxExponent bounds the exponents expanded exactly; larger ones keep
// their literal text.
const maxExponent = 400

var ten = big.NewRat(10, 1)

// canonicalNumber renders a JSON number literal in plain decimal form with
// no trailing zeros, so equal values share one spelling.
func canonicalNumber(s string) string {
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		exp, err := strconv.Atoi(strings.TrimPrefix(s[i+1:], "+"))
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return s
		}
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	if r.IsInt() {
		return r.Num().String()
	}
	// JSON decimals have denominators of the form 2^a*5^b, so this ends.
	places := 0
	for x := new(big.Rat).Set(r); !x.IsInt(); places++ {
		x.Mul(x, ten)
	}
	return r.FloatString(places)
}

// Field returns the reference stored under name, if the record carries a
// usable one.
func (r Record) Field(name string) (Key, bool) {
	v, present := r[name]
	if !present {
		return Key{}, false
	}
	return KeyOf(v)
}

// Identity returns the key stored under name whenever the field is
// present, whatever its value.
func (r Record) Identity(name string) (Key, bool) {
	v, present := r[name]
	if !present {
		return Key{}, false
	}
	return IdentityOf(v), true
}
