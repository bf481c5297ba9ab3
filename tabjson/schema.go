package tabjson

import (
	"fmt"
	"strings"

	"github.com/tabjson/tabjson/table"
)

// Field is one named, typed column of an inferred schema.
type Field struct {
	Name string
	Type table.DType
}

// Schema is the ordered column list fixed by inference. It never changes
// after inference completes; materialization treats it as authoritative.
type Schema struct {
	fields []Field
	index  map[string]int
}

func newSchema(fields []Field) *Schema {
	s := &Schema{fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		s.index[f.Name] = i
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the columns in schema order. Callers must not modify it.
func (s *Schema) Fields() []Field { return s.fields }

// Field returns the i-th column.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Index returns the position of the named column.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// String renders the schema as "name:type, ...".
func (s *Schema) String() string {
	var sb strings.Builder
	for i, f := range s.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s:%s", f.Name, f.Type)
	}
	return sb.String()
}

// observed tracks what value kinds a column has shown during inference.
type observed uint8

const (
	obsUnset observed = iota // nothing but nulls so far
	obsBool
	obsInt
	obsFloat
	obsStr
	obsMixed // incompatible kinds seen; falls back to utf8
)

// promote applies the widening lattice for one more observed value.
// Nulls never change the current state; Int widens to Float; any other
// disagreement degrades to mixed.
func promote(cur observed, k Kind) observed {
	switch k {
	case KindNull:
		return cur
	case KindBool:
		if cur == obsUnset || cur == obsBool {
			return obsBool
		}
	case KindInt:
		switch cur {
		case obsUnset, obsInt:
			return obsInt
		case obsFloat:
			return obsFloat
		}
	case KindFloat:
		switch cur {
		case obsUnset, obsInt, obsFloat:
			return obsFloat
		}
	case KindStr:
		if cur == obsUnset || cur == obsStr {
			return obsStr
		}
	}
	return obsMixed
}

// dtype maps the final observation state to a column type. A column that
// never showed a non-null value is typed utf8, the safest supertype.
func (o observed) dtype() table.DType {
	switch o {
	case obsBool:
		return table.Bool
	case obsInt:
		return table.Int64
	case obsFloat:
		return table.Float64
	default:
		return table.Utf8
	}
}

// inferSchema derives the column list from already-sampled records.
// Column order is first-seen order across records; within a record,
// duplicate keys count once at their first occurrence, while the value
// that feeds type promotion is the last occurrence (last-write-wins).
func inferSchema(records [][]rawField) (*Schema, error) {
	if len(records) == 0 {
		return nil, ErrEmptySchema
	}

	var order []string
	state := make(map[string]observed)

	for _, rec := range records {
		var keys []string
		last := make(map[string]Value, len(rec))
		for _, f := range rec {
			if _, seen := last[f.key]; !seen {
				keys = append(keys, f.key)
			}
			last[f.key] = f.val
		}
		for _, key := range keys {
			cur, known := state[key]
			if !known {
				order = append(order, key)
			}
			state[key] = promote(cur, last[key].Kind())
		}
	}

	fields := make([]Field, len(order))
	for i, name := range order {
		fields[i] = Field{Name: name, Type: state[name].dtype()}
	}
	return newSchema(fields), nil
}
