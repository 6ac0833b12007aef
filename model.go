package autocrud

// FieldKind defines a public type used by autocrud APIs.
//
// FieldKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type FieldKind uint8

const (
	// KindString is an exported constant or variable used by the route generator.
	KindString FieldKind = iota
	// KindInt is an exported constant or variable used by the route generator.
	KindInt
	// KindFloat is an exported constant or variable used by the route generator.
	KindFloat
	// KindBool is an exported constant or variable used by the route generator.
	KindBool
	// KindTime is an exported constant or variable used by the route generator.
	KindTime
)

// String describes the string operation and its observable behavior.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Field defines a public type used by autocrud APIs.
//
// Field instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Field struct {
	Name       string
	Kind       FieldKind
	PrimaryKey bool
	Nullable   bool
	Default    any
}

// Model is the interface every exposable data type must satisfy. It enumerates
// the model's fields statically at registration time; no runtime reflection is
// performed on values.
type Model interface {
	ModelName() string
	ModelFields() []Field
}
