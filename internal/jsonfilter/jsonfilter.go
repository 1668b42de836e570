// Package jsonfilter builds filter-chain transformers that edit JSON
// documents, configured declaratively.
package jsonfilter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/guilhermegouw/evman/internal/dispatcher"
)

// ErrNotJSON is returned when a transformer receives a value it cannot
// treat as a JSON document.
var ErrNotJSON = errors.New("value is not a JSON document")

// Rule edits one field of a JSON document. Exactly one of Set or Delete is
// used. Paths use sjson/gjson syntax.
type Rule struct {
	// Set is the path to write Value to.
	Set   string          `json:"set,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`

	// Delete is the path to remove.
	Delete string `json:"delete,omitempty"`

	// If, when set, is a path that must exist for the rule to apply.
	If string `json:"if,omitempty"`
}

// Validate checks that the rule names exactly one operation.
func (r Rule) Validate() error {
	switch {
	case r.Set != "" && r.Delete != "":
		return errors.New("rule sets both set and delete")
	case r.Set == "" && r.Delete == "":
		return errors.New("rule needs set or delete")
	case r.Set != "" && len(r.Value) == 0:
		return fmt.Errorf("rule for %q has no value", r.Set)
	case r.Set != "" && !json.Valid(r.Value):
		return fmt.Errorf("rule for %q has invalid JSON value", r.Set)
	}
	return nil
}

// Apply runs the rule against doc. It reports false when the rule's
// condition does not hold.
func (r Rule) Apply(doc string) (string, bool, error) {
	if r.If != "" && !gjson.Get(doc, r.If).Exists() {
		return doc, false, nil
	}

	if r.Delete != "" {
		out, err := sjson.Delete(doc, r.Delete)
		if err != nil {
			return "", false, fmt.Errorf("deleting %q: %w", r.Delete, err)
		}
		return out, true, nil
	}

	out, err := sjson.SetRaw(doc, r.Set, string(r.Value))
	if err != nil {
		return "", false, fmt.Errorf("setting %q: %w", r.Set, err)
	}
	return out, true, nil
}

// Transformer returns a filter that applies rule to JSON documents. It
// accepts string, []byte, and json.RawMessage input and always produces a
// string. When the rule's condition does not hold it reports NoChange.
func Transformer(rule Rule) (dispatcher.FilterFunc, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	return func(_ context.Context, value any) (any, error) {
		doc, err := document(value)
		if err != nil {
			return nil, err
		}
		out, applied, err := rule.Apply(doc)
		if err != nil {
			return nil, err
		}
		if !applied {
			return dispatcher.NoChange, nil
		}
		return out, nil
	}, nil
}

// Register adds one transformer per rule to the named filter, in order.
// Nothing is registered if any rule is invalid.
func Register(d *dispatcher.Dispatcher, name string, rules []Rule) error {
	fns := make([]dispatcher.FilterFunc, 0, len(rules))
	for i, rule := range rules {
		fn, err := Transformer(rule)
		if err != nil {
			return fmt.Errorf("filter %q rule %d: %w", name, i, err)
		}
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		d.FilterOn(name, fn)
	}
	return nil
}

func document(value any) (string, error) {
	var doc string
	switch v := value.(type) {
	case string:
		doc = v
	case []byte:
		doc = string(v)
	case json.RawMessage:
		doc = string(v)
	default:
		return "", fmt.Errorf("%w: %T", ErrNotJSON, value)
	}
	if !gjson.Valid(doc) {
		return "", ErrNotJSON
	}
	return doc, nil
}

// Equal compares two values as JSON documents when both are, so
// formatting differences introduced by serialization are not changes.
// Other values fall back to reflect.DeepEqual.
func Equal(a, b any) bool {
	da, errA := document(a)
	db, errB := document(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	if da == db {
		return true
	}

	var va, vb any
	if json.Unmarshal([]byte(da), &va) != nil || json.Unmarshal([]byte(db), &vb) != nil {
		return false
	}
	return reflect.DeepEqual(va, vb)
}
