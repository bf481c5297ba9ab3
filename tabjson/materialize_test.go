package tabjson

import (
	"testing"

	"github.com/tabjson/tabjson/table"
)

// ============================================================
// Coercion Tests
// ============================================================

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		val      Value
		typ      table.DType
		ok       bool // stored without conflict
		wantNull bool
	}{
		{"bool into bool", Bool(true), table.Bool, true, false},
		{"int into bool", Int(1), table.Bool, false, true},
		{"str into bool", Str("true"), table.Bool, false, true},

		{"int into int64", Int(7), table.Int64, true, false},
		{"numeric str into int64", Str("42"), table.Int64, true, false},
		{"float into int64", Float(1.5), table.Int64, false, true},
		{"bool into int64", Bool(true), table.Int64, false, true},
		{"junk str into int64", Str("x"), table.Int64, false, true},

		{"float into float64", Float(2.5), table.Float64, true, false},
		{"int widens to float64", Int(3), table.Float64, true, false},
		{"numeric str into float64", Str("2.5"), table.Float64, true, false},
		{"bool into float64", Bool(false), table.Float64, false, true},

		{"str into utf8", Str("a"), table.Utf8, true, false},
		{"int into utf8", Int(5), table.Utf8, true, false},
		{"float into utf8", Float(2.5), table.Utf8, true, false},
		{"bool into utf8", Bool(true), table.Utf8, true, false},

		{"null is not a conflict", Null(), table.Int64, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := table.NewBuilder("x", tt.typ)
			ok := coerce(tt.val, tt.typ, b)
			if ok != tt.ok {
				t.Errorf("coerce ok = %v, want %v", ok, tt.ok)
			}
			c := b.Finish()
			if c.Len() != 1 {
				t.Fatalf("column has %d cells, want 1", c.Len())
			}
			if c.IsNull(0) != tt.wantNull {
				t.Errorf("null = %v, want %v", c.IsNull(0), tt.wantNull)
			}
		})
	}
}

func TestCoerce_Values(t *testing.T) {
	b := table.NewBuilder("n", table.Float64)
	coerce(Int(3), table.Float64, b)
	coerce(Str("2.5"), table.Float64, b)
	c := b.Finish()
	if v, _ := c.Float(0); v != 3.0 {
		t.Errorf("widened int = %v, want 3", v)
	}
	if v, _ := c.Float(1); v != 2.5 {
		t.Errorf("parsed str = %v, want 2.5", v)
	}

	sb := table.NewBuilder("s", table.Utf8)
	coerce(Int(7), table.Utf8, sb)
	coerce(Bool(true), table.Utf8, sb)
	coerce(Float(1.5), table.Utf8, sb)
	sc := sb.Finish()
	for i, want := range []string{"7", "true", "1.5"} {
		if got, _ := sc.Str(i); got != want {
			t.Errorf("cell %d = %q, want %q", i, got, want)
		}
	}
}

// ============================================================
// Batch Shape Tests
// ============================================================

func TestMaterialize_BatchSizesDoNotChangeSemantics(t *testing.T) {
	var input []byte
	for i := 0; i < 25; i++ {
		input = append(input, []byte(`{"a":1, "b":"x"}`+"\n")...)
	}
	for _, batch := range []int{1, 3, 8, 25, 1000} {
		tb, err := ReadBytes(input, func(r *Reader) { r.WithBatchSize(batch) })
		if err != nil {
			t.Fatalf("batch=%d: %v", batch, err)
		}
		rows, cols := tb.Shape()
		if rows != 25 || cols != 2 {
			t.Errorf("batch=%d: shape (%d, %d), want (25, 2)", batch, rows, cols)
		}
	}
}
