package goap

import (
	"fmt"
	"strconv"
)

// FactKind discriminates the value types a fact may carry.
type FactKind uint8

const (
	KindBool FactKind = iota
	KindInt
	KindEnum
	KindID
)

// FactValue is a small discriminated value: boolean, integer, enum label, or
// an opaque identifier (unit ids, item ids, encoded positions). Values are
// comparable with ==, which the world state and closed set rely on.
type FactValue struct {
	kind FactKind
	b    bool
	i    int
	s    string
}

// Bool returns a boolean fact value.
func Bool(v bool) FactValue { return FactValue{kind: KindBool, b: v} }

// Int returns an integer fact value.
func Int(v int) FactValue { return FactValue{kind: KindInt, i: v} }

// Enum returns an enum-label fact value.
func Enum(v string) FactValue { return FactValue{kind: KindEnum, s: v} }

// ID returns an opaque-identifier fact value. Positions, unit ids and item
// ids are all IDs as far as the planner is concerned.
func ID(v string) FactValue { return FactValue{kind: KindID, s: v} }

// Kind returns the value's kind.
func (v FactValue) Kind() FactKind { return v.kind }

// AsBool returns the boolean payload. Zero value for other kinds.
func (v FactValue) AsBool() bool { return v.b }

// AsInt returns the integer payload. Zero value for other kinds.
func (v FactValue) AsInt() int { return v.i }

// AsString returns the enum or identifier payload. Empty for other kinds.
func (v FactValue) AsString() string { return v.s }

// canonical renders the value for state keys: kind-tagged and quoted so no
// two distinct values share a rendering. Bool(true), Enum("true") and
// ID("true") must stay distinct identities, and quoting keeps payloads
// containing '=', ' ' or '}' from forging structural collisions.
func (v FactValue) canonical() string {
	switch v.kind {
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindInt:
		return "i:" + strconv.Itoa(v.i)
	case KindEnum:
		return "e:" + strconv.Quote(v.s)
	default:
		return "d:" + strconv.Quote(v.s)
	}
}

// String renders the value for logging.
func (v FactValue) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindEnum:
		return v.s
	default:
		return v.s
	}
}

// Condition is a single fact equality test: the fact at Key must equal Value.
// Absence and enum mismatch are expressible as distinct values, so equality
// is the only predicate the planner needs.
type Condition struct {
	Key   string
	Value FactValue
}

func (c Condition) String() string {
	return fmt.Sprintf("%s=%s", c.Key, c.Value)
}

// Effect is a single fact assignment applied when an action completes.
type Effect struct {
	Key   string
	Value FactValue
}

func (e Effect) String() string {
	return fmt.Sprintf("%s:=%s", e.Key, e.Value)
}
