package table

// DType identifies the storage type of a column.
type DType uint8

const (
	Bool DType = iota
	Int64
	Float64
	Utf8
)

// String returns the type name.
func (t DType) String() string {
	switch t {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Utf8:
		return "utf8"
	default:
		return "unknown"
	}
}
