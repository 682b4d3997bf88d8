package snake

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type ValueKind byte

const (
	NullValue ValueKind = iota
	StringValue
	NumberValue
	BoolValue
	MapValue
	ListValue
)

// RuleValue holds one value of a game's ruleset. The engine adds
// ruleset options over time, so values are kept as a tagged union
// instead of a fixed schema.
type RuleValue struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Map  map[string]RuleValue
	List []RuleValue
}

func String(s string) RuleValue            { return RuleValue{Kind: StringValue, Str: s} }
func Number(n float64) RuleValue           { return RuleValue{Kind: NumberValue, Num: n} }
func Bool(b bool) RuleValue                { return RuleValue{Kind: BoolValue, Bool: b} }
func Map(m map[string]RuleValue) RuleValue { return RuleValue{Kind: MapValue, Map: m} }

func (v *RuleValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty ruleset value")
	}
	switch b[0] {
	case 'n':
		*v = RuleValue{Kind: NullValue}
		return nil
	case '"':
		v.Kind = StringValue
		return json.Unmarshal(b, &v.Str)
	case 't', 'f':
		v.Kind = BoolValue
		return json.Unmarshal(b, &v.Bool)
	case '{':
		v.Kind = MapValue
		return json.Unmarshal(b, &v.Map)
	case '[':
		v.Kind = ListValue
		return json.Unmarshal(b, &v.List)
	default:
		v.Kind = NumberValue
		return json.Unmarshal(b, &v.Num)
	}
}

func (v RuleValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case StringValue:
		return json.Marshal(v.Str)
	case NumberValue:
		return json.Marshal(v.Num)
	case BoolValue:
		return json.Marshal(v.Bool)
	case MapValue:
		if v.Map == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.Map)
	case ListValue:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return []byte("null"), nil
}

// Int returns the value as an integer, accepting numbers and
// numeric strings.
func (v RuleValue) Int() (int, bool) {
	switch v.Kind {
	case NumberValue:
		return int(v.Num), true
	case StringValue:
		var n int
		if _, err := fmt.Sscanf(v.Str, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

type Ruleset map[string]RuleValue

// MarshalJSON writes a nil Ruleset as {}, since the field is required.
func (r Ruleset) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]RuleValue(r))
}

func (r Ruleset) Name() string {
	return r["name"].Str
}

func (r Ruleset) Version() string {
	return r["version"].Str
}

// Lookup follows a path of keys through nested maps, e.g.
// Lookup("settings", "royale", "shrinkEveryNTurns").
func (r Ruleset) Lookup(path ...string) (RuleValue, bool) {
	if len(path) == 0 {
		return RuleValue{}, false
	}
	v, ok := r[path[0]]
	for _, k := range path[1:] {
		if !ok || v.Kind != MapValue {
			return RuleValue{}, false
		}
		v, ok = v.Map[k]
	}
	return v, ok
}

// Setting returns an integer setting from the "settings" map, or def
// if it is absent.
func (r Ruleset) Setting(key string, def int) int {
	v, ok := r.Lookup("settings", key)
	if !ok {
		return def
	}
	if n, ok := v.Int(); ok {
		return n
	}
	return def
}
