package table

import "fmt"

// Builder accumulates values for one column. Appends are typed; appending
// a value of the wrong type is a programming error and panics. Null cells
// are tracked in a presence slice so the backing slices stay dense.
type Builder struct {
	name     string
	typ      DType
	present  []bool
	finished bool

	boolVals  []bool
	intVals   []int64
	floatVals []float64
	strVals   []string
}

// NewBuilder creates a builder for a column of the given type.
func NewBuilder(name string, typ DType) *Builder {
	return &Builder{name: name, typ: typ}
}

// Name returns the column name.
func (b *Builder) Name() string { return b.name }

// Type returns the column type.
func (b *Builder) Type() DType { return b.typ }

// Len returns the number of cells appended so far.
func (b *Builder) Len() int { return len(b.present) }

// AppendNull appends a null cell.
func (b *Builder) AppendNull() {
	b.checkOpen()
	b.present = append(b.present, false)
	switch b.typ {
	case Bool:
		b.boolVals = append(b.boolVals, false)
	case Int64:
		b.intVals = append(b.intVals, 0)
	case Float64:
		b.floatVals = append(b.floatVals, 0)
	case Utf8:
		b.strVals = append(b.strVals, "")
	}
}

// AppendBool appends a boolean cell.
func (b *Builder) AppendBool(v bool) {
	b.checkType(Bool)
	b.present = append(b.present, true)
	b.boolVals = append(b.boolVals, v)
}

// AppendInt appends an int64 cell.
func (b *Builder) AppendInt(v int64) {
	b.checkType(Int64)
	b.present = append(b.present, true)
	b.intVals = append(b.intVals, v)
}

// AppendFloat appends a float64 cell.
func (b *Builder) AppendFloat(v float64) {
	b.checkType(Float64)
	b.present = append(b.present, true)
	b.floatVals = append(b.floatVals, v)
}

// AppendStr appends a string cell.
func (b *Builder) AppendStr(v string) {
	b.checkType(Utf8)
	b.present = append(b.present, true)
	b.strVals = append(b.strVals, v)
}

// Finish seals the builder and returns the immutable column.
// The builder must not be used after Finish.
func (b *Builder) Finish() *Column {
	b.checkOpen()
	b.finished = true
	return &Column{
		name:      b.name,
		typ:       b.typ,
		present:   b.present,
		boolVals:  b.boolVals,
		intVals:   b.intVals,
		floatVals: b.floatVals,
		strVals:   b.strVals,
	}
}

func (b *Builder) checkOpen() {
	if b.finished {
		panic(fmt.Sprintf("table: builder %q used after Finish", b.name))
	}
}

func (b *Builder) checkType(want DType) {
	b.checkOpen()
	if b.typ != want {
		panic(fmt.Sprintf("table: column %q expects %s, appended %s", b.name, b.typ, want))
	}
}

// Column is an immutable, homogeneously typed sequence of nullable cells.
type Column struct {
	name    string
	typ     DType
	present []bool

	boolVals  []bool
	intVals   []int64
	floatVals []float64
	strVals   []string
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Type returns the column type.
func (c *Column) Type() DType { return c.typ }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.present) }

// IsNull reports whether cell i is null.
func (c *Column) IsNull(i int) bool { return !c.present[i] }

// Bool returns cell i of a Bool column. The second return is false for null.
func (c *Column) Bool(i int) (bool, bool) {
	c.mustType(Bool)
	return c.boolVals[i], c.present[i]
}

// Int returns cell i of an Int64 column. The second return is false for null.
func (c *Column) Int(i int) (int64, bool) {
	c.mustType(Int64)
	return c.intVals[i], c.present[i]
}

// Float returns cell i of a Float64 column. The second return is false for null.
func (c *Column) Float(i int) (float64, bool) {
	c.mustType(Float64)
	return c.floatVals[i], c.present[i]
}

// Str returns cell i of a Utf8 column. The second return is false for null.
func (c *Column) Str(i int) (string, bool) {
	c.mustType(Utf8)
	return c.strVals[i], c.present[i]
}

func (c *Column) mustType(want DType) {
	if c.typ != want {
		panic(fmt.Sprintf("table: column %q is %s, accessed as %s", c.name, c.typ, want))
	}
}

// concatColumns joins same-name, same-type columns into one, preserving order.
func concatColumns(cols []*Column) (*Column, error) {
	first := cols[0]
	out := &Column{name: first.name, typ: first.typ}
	for _, c := range cols {
		if c.name != first.name || c.typ != first.typ {
			return nil, fmt.Errorf("table: cannot concat column %s:%s with %s:%s",
				first.name, first.typ, c.name, c.typ)
		}
		out.present = append(out.present, c.present...)
		out.boolVals = append(out.boolVals, c.boolVals...)
		out.intVals = append(out.intVals, c.intVals...)
		out.floatVals = append(out.floatVals, c.floatVals...)
		out.strVals = append(out.strVals, c.strVals...)
	}
	return out, nil
}
