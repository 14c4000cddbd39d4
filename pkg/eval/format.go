package eval

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Format returns a one-line representation of a value, in the syntax it
// would be written in.
func Format(v any) string {
	var sb strings.Builder
	format(&sb, reflect.ValueOf(v))
	return sb.String()
}

func format(sb *strings.Builder, rv reflect.Value) {
	if !rv.IsValid() {
		sb.WriteString("nil")
		return
	}
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			sb.WriteString("nil")
			return
		}
		format(sb, rv.Elem())
	case reflect.String:
		sb.WriteString(strconv.Quote(rv.String()))
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			sb.WriteString("nil")
			return
		}
		sb.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, rv.Index(i))
		}
		sb.WriteByte(']')
	case reflect.Map:
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
		})
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			if k.Kind() == reflect.String {
				sb.WriteString(k.String())
			} else {
				format(sb, k)
			}
			sb.WriteString(": ")
			format(sb, rv.MapIndex(k))
		}
		sb.WriteByte('}')
	case reflect.Func:
		sb.WriteString("func")
	default:
		if rv.CanInterface() {
			fmt.Fprint(sb, rv.Interface())
		} else {
			fmt.Fprint(sb, rv)
		}
	}
}
