package plugger

import (
	"fmt"
	"reflect"
	"strings"
)

// Kind is the kind of a Shape.
type Kind int

// Kinds of shapes.
const (
	Void Kind = iota
	Bool
	Number
	String
	// Tuple is a fixed-length sequence of primitives, either a Go array or a
	// struct nested inside a Record.
	Tuple
	// Record is a struct of named primitive or tuple fields.
	Record
)

var kindNames = [...]string{"void", "boolean", "number", "string", "tuple", "record"}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape describes the payload type of a channel.
type Shape struct {
	Kind Kind
	// Elems holds the element shapes of a Tuple.
	Elems []Shape
	// Fields holds the fields of a Record.
	Fields []Field
}

// Field is a named field of a Record shape.
type Field struct {
	Name  string
	Shape Shape
}

func (s Shape) String() string {
	switch s.Kind {
	case Tuple:
		elems := make([]string, len(s.Elems))
		for i, e := range s.Elems {
			elems[i] = e.String()
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case Record:
		fields := make([]string, len(s.Fields))
		for i, f := range s.Fields {
			fields[i] = f.Name + ": " + f.Shape.String()
		}
		return "{" + strings.Join(fields, ", ") + "}"
	default:
		return s.Kind.String()
	}
}

// ShapeOf derives the shape of a Go type. Only types that map onto a primitive,
// a fixed tuple of primitives or a flat record of those are accepted.
func ShapeOf(t reflect.Type) (Shape, error) {
	if s, ok := primitiveShape(t); ok {
		return s, nil
	}
	switch t.Kind() {
	case reflect.Array:
		return tupleOfArray(t)
	case reflect.Struct:
		fields := make([]Field, 0, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				return Shape{}, fmt.Errorf("%v: unexported field %s", t, f.Name)
			}
			fs, ok := primitiveShape(f.Type)
			if !ok {
				var err error
				fs, err = tupleShape(f.Type)
				if err != nil {
					return Shape{}, fmt.Errorf("%v.%s: %w", t, f.Name, err)
				}
			}
			fields = append(fields, Field{f.Name, fs})
		}
		return Shape{Kind: Record, Fields: fields}, nil
	}
	return Shape{}, fmt.Errorf("%v is not a valid payload type", t)
}

func primitiveShape(t reflect.Type) (Shape, bool) {
	switch t.Kind() {
	case reflect.Bool:
		return Shape{Kind: Bool}, true
	case reflect.String:
		return Shape{Kind: String}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Shape{Kind: Number}, true
	case reflect.Struct:
		if t.NumField() == 0 {
			return Shape{Kind: Void}, true
		}
	}
	return Shape{}, false
}

func tupleShape(t reflect.Type) (Shape, error) {
	switch t.Kind() {
	case reflect.Array:
		return tupleOfArray(t)
	case reflect.Struct:
		elems := make([]Shape, t.NumField())
		for i := range elems {
			f := t.Field(i)
			es, ok := primitiveShape(f.Type)
			if !ok || !f.IsExported() {
				return Shape{}, fmt.Errorf("tuple element %s is not an exported primitive", f.Name)
			}
			elems[i] = es
		}
		return Shape{Kind: Tuple, Elems: elems}, nil
	}
	return Shape{}, fmt.Errorf("%v is neither a primitive nor a tuple", t)
}

func tupleOfArray(t reflect.Type) (Shape, error) {
	es, ok := primitiveShape(t.Elem())
	if !ok {
		return Shape{}, fmt.Errorf("%v: element type %v is not a primitive", t, t.Elem())
	}
	if t.Len() == 0 {
		return Shape{}, fmt.Errorf("%v: empty tuple", t)
	}
	elems := make([]Shape, t.Len())
	for i := range elems {
		elems[i] = es
	}
	return Shape{Kind: Tuple, Elems: elems}, nil
}
