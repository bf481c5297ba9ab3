package tabjson

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/tabjson/tabjson/table"
)

// Defaults for the reader configuration.
const (
	DefaultSampleSize = 100
	DefaultBatchSize  = 8192
)

// Reader decodes NDJSON or JSON-array input into a typed columnar table.
// Configure with the chained setters, then call Finish.
type Reader struct {
	src        io.Reader
	format     Format
	sampleSize int
	batchSize  int
	parallel   int
	conflicts  atomic.Int64
}

// NewReader creates a reader over r with default configuration:
// JSON-lines format, 100-record schema sample, 8192-record batches.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		src:        r,
		format:     FormatLines,
		sampleSize: DefaultSampleSize,
		batchSize:  DefaultBatchSize,
		parallel:   runtime.GOMAXPROCS(0),
	}
}

// WithFormat selects the record framing.
func (r *Reader) WithFormat(f Format) *Reader {
	r.format = f
	return r
}

// InferSchemaLen sets how many records feed schema inference.
// n <= 0 means use every record (exhaustive, costlier).
func (r *Reader) InferSchemaLen(n int) *Reader {
	r.sampleSize = n
	return r
}

// WithBatchSize sets records per materialization batch. It changes memory
// and parallelism granularity, never decode semantics.
func (r *Reader) WithBatchSize(n int) *Reader {
	if n > 0 {
		r.batchSize = n
	}
	return r
}

// WithParallel caps the number of batches decoding concurrently.
func (r *Reader) WithParallel(n int) *Reader {
	if n > 0 {
		r.parallel = n
	}
	return r
}

// Conflicts returns the number of cells that could not be coerced to their
// column type and were stored as null. Valid after Finish.
func (r *Reader) Conflicts() int64 { return r.conflicts.Load() }

// Finish reads the whole input and returns the decoded table, or the first
// fatal error. No partial table is returned on error.
func (r *Reader) Finish() (*table.Table, error) {
	data, err := io.ReadAll(r.src)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data, err = maybeDecompress(data)
	if err != nil {
		return nil, err
	}
	return r.decode(data)
}

// InferSchema runs only the scan and inference phases and returns the
// schema that Finish would fix, without materializing any batch.
func (r *Reader) InferSchema() (*Schema, error) {
	data, err := io.ReadAll(r.src)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	data, err = maybeDecompress(data)
	if err != nil {
		return nil, err
	}
	spans, err := scanRecords(data, r.format)
	if err != nil {
		return nil, err
	}
	sample, err := r.tokenizeSample(data, spans)
	if err != nil {
		return nil, err
	}
	return inferSchema(sample)
}

func (r *Reader) decode(data []byte) (*table.Table, error) {
	spans, err := scanRecords(data, r.format)
	if err != nil {
		return nil, err
	}
	sample, err := r.tokenizeSample(data, spans)
	if err != nil {
		return nil, err
	}
	// Inference completes before any batch decode starts: the fixed
	// schema is a precondition for coercion.
	schema, err := inferSchema(sample)
	if err != nil {
		return nil, err
	}
	return materialize(data, spans, schema, r.batchSize, r.parallel, &r.conflicts)
}

// tokenizeSample decodes the inference prefix of the spans.
func (r *Reader) tokenizeSample(data []byte, spans []recordSpan) ([][]rawField, error) {
	k := len(spans)
	if r.sampleSize > 0 && r.sampleSize < k {
		k = r.sampleSize
	}
	sample := make([][]rawField, 0, k)
	for _, sp := range spans[:k] {
		fields, err := tokenizeRecord(data[sp.start:sp.end], sp.start)
		if err != nil {
			return nil, err
		}
		sample = append(sample, fields)
	}
	return sample, nil
}

// ReadBytes decodes in-memory input with an optional configuration hook.
func ReadBytes(data []byte, configure func(*Reader)) (*table.Table, error) {
	r := NewReader(bytes.NewReader(data))
	if configure != nil {
		configure(r)
	}
	return r.Finish()
}

// Compressed-input magic numbers.
var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// maybeDecompress transparently inflates gzip or zstd input, detected by
// magic bytes. Plain input passes through untouched.
func maybeDecompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip input: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip input: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, zstdMagic):
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd input: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("zstd input: %w", err)
		}
		return out, nil
	default:
		return data, nil
	}
}
