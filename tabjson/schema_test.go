package tabjson

import (
	"errors"
	"testing"

	"github.com/tabjson/tabjson/table"
)

// ============================================================
// Schema Inference Tests
// ============================================================

func mustTokenize(t *testing.T, lines ...string) [][]rawField {
	t.Helper()
	records := make([][]rawField, len(lines))
	for i, line := range lines {
		fields, err := tokenizeRecord([]byte(line), 0)
		if err != nil {
			t.Fatalf("tokenize %q: %v", line, err)
		}
		records[i] = fields
	}
	return records
}

func TestInferSchema_FirstSeenOrder(t *testing.T) {
	records := mustTokenize(t,
		`{"a":1, "b":2.0}`,
		`{"c":true, "a":2}`,
		`{"d":"x", "b":1.5}`,
	)
	schema, err := inferSchema(records)
	if err != nil {
		t.Fatalf("inferSchema failed: %v", err)
	}
	want := []string{"a", "b", "c", "d"}
	if schema.Len() != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), schema.Len())
	}
	for i, name := range want {
		if schema.Field(i).Name != name {
			t.Errorf("column %d = %q, want %q", i, schema.Field(i).Name, name)
		}
	}
}

func TestInferSchema_DuplicateKeyCountsOnce(t *testing.T) {
	records := mustTokenize(t,
		`{"a":1, "b":2, "a":3}`,
	)
	schema, err := inferSchema(records)
	if err != nil {
		t.Fatalf("inferSchema failed: %v", err)
	}
	if schema.Len() != 2 {
		t.Fatalf("expected 2 columns, got %d (%s)", schema.Len(), schema)
	}
	if schema.Field(0).Name != "a" || schema.Field(1).Name != "b" {
		t.Errorf("order = %s, want a, b", schema)
	}
}

func TestInferSchema_Promotion(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  table.DType
	}{
		{"int only", []string{`{"x":1}`, `{"x":-2}`}, table.Int64},
		{"float only", []string{`{"x":1.5}`, `{"x":2.5}`}, table.Float64},
		{"bool only", []string{`{"x":true}`, `{"x":false}`}, table.Bool},
		{"str only", []string{`{"x":"a"}`, `{"x":"b"}`}, table.Utf8},
		{"int then float", []string{`{"x":1}`, `{"x":1.5}`}, table.Float64},
		{"float then int", []string{`{"x":1.5}`, `{"x":1}`}, table.Float64},
		{"int then str", []string{`{"x":1}`, `{"x":"a"}`}, table.Utf8},
		{"str then float", []string{`{"x":"a"}`, `{"x":1.5}`}, table.Utf8},
		{"bool then int", []string{`{"x":true}`, `{"x":1}`}, table.Utf8},
		{"float then bool", []string{`{"x":1.5}`, `{"x":true}`}, table.Utf8},
		{"null ignored", []string{`{"x":null}`, `{"x":7}`, `{"x":null}`}, table.Int64},
		{"null only", []string{`{"x":null}`, `{"x":null}`}, table.Utf8},
		{"missing key ignored", []string{`{"x":true}`, `{"y":1}`, `{"x":false}`}, table.Bool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema, err := inferSchema(mustTokenize(t, tt.lines...))
			if err != nil {
				t.Fatalf("inferSchema failed: %v", err)
			}
			i, ok := schema.Index("x")
			if !ok {
				t.Fatal("column x missing")
			}
			if got := schema.Field(i).Type; got != tt.want {
				t.Errorf("x inferred as %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInferSchema_DuplicateKeyLastValueFeedsType(t *testing.T) {
	// Last-write-wins applies to the value used for promotion too.
	records := mustTokenize(t, `{"x":"str", "x":1}`)
	schema, err := inferSchema(records)
	if err != nil {
		t.Fatalf("inferSchema failed: %v", err)
	}
	if got := schema.Field(0).Type; got != table.Int64 {
		t.Errorf("x inferred as %s, want int64", got)
	}
}

func TestInferSchema_Empty(t *testing.T) {
	_, err := inferSchema(nil)
	if !errors.Is(err, ErrEmptySchema) {
		t.Errorf("got %v, want ErrEmptySchema", err)
	}
}

func TestSchema_String(t *testing.T) {
	schema, err := inferSchema(mustTokenize(t, `{"a":1, "b":"x"}`))
	if err != nil {
		t.Fatalf("inferSchema failed: %v", err)
	}
	if got := schema.String(); got != "a:int64, b:utf8" {
		t.Errorf("String() = %q", got)
	}
}
