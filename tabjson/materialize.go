package tabjson

import (
	"context"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tabjson/tabjson/table"
)

// materialize decodes all record spans against the fixed schema, in batches
// of batchSize with up to parallel batches decoding concurrently. Each
// batch owns its builders; outputs are indexed by batch position and
// concatenated so rows land in original input order regardless of worker
// completion order. The first structural error cancels in-flight batches
// and surfaces; cell-level conflicts only bump the counter.
func materialize(input []byte, spans []recordSpan, schema *Schema, batchSize, parallel int, conflicts *atomic.Int64) (*table.Table, error) {
	numBatches := (len(spans) + batchSize - 1) / batchSize
	if numBatches == 0 {
		return emptyTable(schema)
	}

	parts := make([]*table.Table, numBatches)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(parallel)

	for bi := 0; bi < numBatches; bi++ {
		bi := bi
		lo := bi * batchSize
		hi := min(lo+batchSize, len(spans))
		g.Go(func() error {
			t, n, err := decodeBatch(ctx, input, spans[lo:hi], schema)
			if err != nil {
				return err
			}
			conflicts.Add(n)
			parts[bi] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if numBatches == 1 {
		return parts[0], nil
	}
	return table.Concat(parts...)
}

// decodeBatch tokenizes one batch of spans and appends every record into a
// private set of column builders. Pure given (spans, schema): no shared
// mutable state.
func decodeBatch(ctx context.Context, input []byte, spans []recordSpan, schema *Schema) (*table.Table, int64, error) {
	builders := make([]*table.Builder, schema.Len())
	for i, f := range schema.Fields() {
		builders[i] = table.NewBuilder(f.Name, f.Type)
	}

	var conflicts int64
	for _, sp := range spans {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		fields, err := tokenizeRecord(input[sp.start:sp.end], sp.start)
		if err != nil {
			return nil, 0, err
		}
		for i, f := range schema.Fields() {
			v, ok := lookupLast(fields, f.Name)
			if !ok {
				builders[i].AppendNull()
				continue
			}
			if !coerce(v, f.Type, builders[i]) {
				conflicts++
			}
		}
	}

	cols := make([]*table.Column, len(builders))
	for i, b := range builders {
		cols[i] = b.Finish()
	}
	t, err := table.New(cols...)
	return t, conflicts, err
}

// lookupLast scans the ordered fields for the last occurrence of key,
// implementing last-write-wins duplicate semantics.
func lookupLast(fields []rawField, key string) (Value, bool) {
	for i := len(fields) - 1; i >= 0; i-- {
		if fields[i].key == key {
			return fields[i].val, true
		}
	}
	return Value{}, false
}

// coerce appends v to a builder of the given type, converting where a safe
// representation exists. Returns false when the cell degrades to null
// because no safe conversion exists (a soft type conflict).
func coerce(v Value, typ table.DType, b *table.Builder) bool {
	if v.IsNull() {
		b.AppendNull()
		return true
	}
	switch typ {
	case table.Bool:
		if bv, ok := v.AsBool(); ok {
			b.AppendBool(bv)
			return true
		}
	case table.Int64:
		if iv, ok := v.AsInt(); ok {
			b.AppendInt(iv)
			return true
		}
		if s, ok := v.AsStr(); ok {
			if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
				b.AppendInt(iv)
				return true
			}
		}
	case table.Float64:
		if fv, ok := v.Number(); ok {
			b.AppendFloat(fv)
			return true
		}
		if s, ok := v.AsStr(); ok {
			if fv, err := strconv.ParseFloat(s, 64); err == nil {
				b.AppendFloat(fv)
				return true
			}
		}
	case table.Utf8:
		if s, ok := v.Text(); ok {
			b.AppendStr(s)
			return true
		}
	}
	b.AppendNull()
	return false
}

// emptyTable builds a zero-row table carrying the schema's columns.
func emptyTable(schema *Schema) (*table.Table, error) {
	cols := make([]*table.Column, schema.Len())
	for i, f := range schema.Fields() {
		cols[i] = table.NewBuilder(f.Name, f.Type).Finish()
	}
	return table.New(cols...)
}
