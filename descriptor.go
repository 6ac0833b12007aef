package autocrud

import (
	"fmt"
	"math"
	"time"
)

// Descriptor is the static reflection of a registered model: field names and
// kinds, nullability, defaults, and the single primary-key field. It is built
// once by [Builder.Build] and shared read-only by every component afterwards.
type Descriptor struct {
	name       string
	fields     []Field
	index      map[string]int
	primaryKey int
}

// NewDescriptor derives an immutable [Descriptor] from a [Model]. The model
// must declare exactly one primary-key field; zero or more than one yields a
// [DescriptorError]. Pure derivation, no side effects.
func NewDescriptor(m Model) (*Descriptor, error) {
	if m == nil {
		return nil, &DescriptorError{Model: "", Reason: "model is nil"}
	}

	name := m.ModelName()
	if name == "" {
		return nil, &DescriptorError{Model: name, Reason: "model name is empty"}
	}

	fields := m.ModelFields()
	if len(fields) == 0 {
		return nil, &DescriptorError{Model: name, Reason: "model declares no fields"}
	}

	d := &Descriptor{
		name:       name,
		fields:     make([]Field, len(fields)),
		index:      make(map[string]int, len(fields)),
		primaryKey: -1,
	}
	copy(d.fields, fields)

	for i, f := range d.fields {
		if f.Name == "" {
			return nil, &DescriptorError{Model: name, Reason: fmt.Sprintf("field %d has no name", i)}
		}
		if _, dup := d.index[f.Name]; dup {
			return nil, &DescriptorError{Model: name, Reason: fmt.Sprintf("duplicate field %q", f.Name)}
		}
		d.index[f.Name] = i

		if f.PrimaryKey {
			if d.primaryKey >= 0 {
				return nil, &DescriptorError{Model: name, Reason: "more than one primary key field"}
			}
			d.primaryKey = i
		}
	}

	if d.primaryKey < 0 {
		return nil, &DescriptorError{Model: name, Reason: "no primary key field"}
	}

	return d, nil
}

// Name describes the name operation and its observable behavior.
func (d *Descriptor) Name() string { return d.name }

// PrimaryKey describes the primarykey operation and its observable behavior.
func (d *Descriptor) PrimaryKey() Field { return d.fields[d.primaryKey] }

// Fields returns a copy of the ordered field set.
func (d *Descriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field describes the field operation and its observable behavior.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// HasField describes the hasfield operation and its observable behavior.
func (d *Descriptor) HasField(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ValidateCreate checks a full create payload against the field set: unknown
// fields are rejected, required fields (non-nullable, no default, not the
// primary key) must be present, and present values must match their declared
// kind.
func (d *Descriptor) ValidateCreate(payload Record) error {
	if payload == nil {
		return &ValidationError{Reason: "payload is empty"}
	}
	if err := d.checkKnownFields(payload); err != nil {
		return err
	}

	for _, f := range d.fields {
		if _, present := payload[f.Name]; present {
			continue
		}
		if f.PrimaryKey || f.Nullable || f.Default != nil {
			continue
		}
		return &ValidationError{Field: f.Name, Reason: "required field is missing"}
	}

	return nil
}

// ValidatePartial checks an update payload: at least one known field, no
// unknown fields, no primary-key mutation, and kind-correct values.
func (d *Descriptor) ValidatePartial(payload Record) error {
	if len(payload) == 0 {
		return &ValidationError{Reason: "partial payload is empty"}
	}
	if err := d.checkKnownFields(payload); err != nil {
		return err
	}
	if _, present := payload[d.PrimaryKey().Name]; present {
		return &ValidationError{Field: d.PrimaryKey().Name, Reason: "primary key cannot be updated"}
	}
	return nil
}

// ApplyDefaults returns a copy of payload with declared defaults filled in for
// absent fields. The input is never mutated.
func (d *Descriptor) ApplyDefaults(payload Record) Record {
	out := payload.clone()
	if out == nil {
		out = Record{}
	}
	for _, f := range d.fields {
		if f.Default == nil {
			continue
		}
		if _, present := out[f.Name]; !present {
			out[f.Name] = f.Default
		}
	}
	return out
}

func (d *Descriptor) checkKnownFields(payload Record) error {
	for name, value := range payload {
		i, ok := d.index[name]
		if !ok {
			return &ValidationError{Field: name, Reason: "unknown field"}
		}
		f := d.fields[i]
		if value == nil {
			if f.Nullable {
				continue
			}
			return &ValidationError{Field: name, Reason: "field is not nullable"}
		}
		if !matchesKind(value, f.Kind) {
			return &ValidationError{
				Field:  name,
				Reason: fmt.Sprintf("expected %s value", f.Kind),
			}
		}
	}
	return nil
}

// matchesKind is deliberately tolerant of JSON decoding artifacts: numbers
// arrive as float64 and timestamps as RFC 3339 strings.
func matchesKind(value any, kind FieldKind) bool {
	switch kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindInt:
		switch v := value.(type) {
		case int, int32, int64:
			return true
		case float64:
			return v == math.Trunc(v)
		default:
			return false
		}
	case KindFloat:
		switch value.(type) {
		case float32, float64, int, int32, int64:
			return true
		default:
			return false
		}
	case KindBool:
		_, ok := value.(bool)
		return ok
	case KindTime:
		switch v := value.(type) {
		case time.Time:
			return true
		case string:
			_, err := time.Parse(time.RFC3339, v)
			return err == nil
		default:
			return false
		}
	default:
		return false
	}
}
