package statepath

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// JSON marks a byte slice as a JSON state document.
type JSON []byte

// Raw is the JSON text of an object or array resolved from a JSON document.
// Two Raw values are equal exactly when their text is equal.
type Raw string

// Decode unmarshals the raw text into v.
func (r Raw) Decode(v any) error {
	return json.Unmarshal([]byte(r), v)
}

func asJSON(state any) (gjson.Result, bool) {
	switch s := state.(type) {
	case JSON:
		return gjson.ParseBytes(s), true
	case json.RawMessage:
		return gjson.ParseBytes(s), true
	case gjson.Result:
		return s, true
	}
	return gjson.Result{}, false
}

func resolveJSON(doc gjson.Result, path string, p Path) Lookup {
	current := doc
	for i, seg := range p {
		if !current.IsObject() && !current.IsArray() {
			return Lookup{Path: path, Missing: seg, Depth: i}
		}
		next := current.Get(gjson.Escape(seg))
		if !next.Exists() {
			return Lookup{Path: path, Missing: seg, Depth: i}
		}
		current = next
	}
	return Lookup{Path: path, Value: jsonValue(current), Found: true, Depth: len(p)}
}

// jsonValue maps scalars to Go values and composites to Raw so results stay
// comparable with ==.
func jsonValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return r.Num
	case gjson.String:
		return r.Str
	default:
		return Raw(r.Raw)
	}
}
