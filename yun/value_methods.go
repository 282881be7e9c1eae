package yun

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	case KindNativeObject:
		return "native object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String is the form print writes. Strings print raw at the top level and
// quoted inside lists and dictionaries.
func (v Value) String() string {
	if v.kind == KindString {
		return v.data.(string)
	}
	var b strings.Builder
	writeValue(&b, v, map[any]bool{})
	return b.String()
}

func writeValue(b *strings.Builder, v Value, seen map[any]bool) {
	switch v.kind {
	case KindNil:
		b.WriteString("nil")
	case KindVoid:
		b.WriteString("void")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case KindNumber:
		b.WriteString(formatNumber(v.Number()))
	case KindString:
		b.WriteString(strconv.Quote(v.Str()))
	case KindFunction:
		if name := v.Function().Name; name != "" {
			fmt.Fprintf(b, "<fn %s>", name)
		} else {
			b.WriteString("<fn>")
		}
	case KindNative:
		fmt.Fprintf(b, "<native fn %s>", v.Native().Name)
	case KindClass:
		b.WriteString(v.Class().Name)
	case KindInstance:
		fmt.Fprintf(b, "%s instance", v.Instance().Class.Name)
	case KindList:
		list := v.List()
		if seen[list] {
			b.WriteString("[...]")
			return
		}
		seen[list] = true
		b.WriteByte('[')
		for i, elem := range list.Elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, elem, seen)
		}
		b.WriteByte(']')
		delete(seen, list)
	case KindDict:
		dict := v.Dict()
		if seen[dict] {
			b.WriteString("{...}")
			return
		}
		seen[dict] = true
		b.WriteByte('{')
		for i, key := range sortedKeys(dict.Entries) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(key)
			b.WriteString(": ")
			writeValue(b, dict.Entries[key], seen)
		}
		b.WriteByte('}')
		delete(seen, dict)
	case KindNativeObject:
		fmt.Fprintf(b, "<%s>", v.NativeObject().Name)
	default:
		fmt.Fprintf(b, "<%v>", v.kind)
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func sortedKeys(m map[string]Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Truthy reports whether v counts as true in a condition. Only nil, void
// and false are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil, KindVoid:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal implements ==. Values of different kinds are never equal, lists
// and dictionaries compare by content and reference kinds by identity.
func (v Value) Equal(other Value) bool {
	return equal(v, other, map[[2]any]bool{})
}

// equal treats a pair of containers already under comparison as equal so
// that self-containing values terminate.
func equal(v, other Value, comparing map[[2]any]bool) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil, KindVoid:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.Str() == other.Str()
	case KindList:
		a, b := v.List(), other.List()
		if a == b {
			return true
		}
		pair := [2]any{a, b}
		if comparing[pair] {
			return true
		}
		comparing[pair] = true
		defer delete(comparing, pair)
		return slices.EqualFunc(a.Elements, b.Elements, func(x, y Value) bool {
			return equal(x, y, comparing)
		})
	case KindDict:
		a, b := v.Dict(), other.Dict()
		if a == b {
			return true
		}
		if len(a.Entries) != len(b.Entries) {
			return false
		}
		pair := [2]any{a, b}
		if comparing[pair] {
			return true
		}
		comparing[pair] = true
		defer delete(comparing, pair)
		for k, av := range a.Entries {
			bv, ok := b.Entries[k]
			if !ok || !equal(av, bv, comparing) {
				return false
			}
		}
		return true
	default:
		return v.data == other.data
	}
}

// DeepCopy returns a copy of v that shares no mutable containers with it.
// Instances are copied field by field and keep their class.
func (v Value) DeepCopy() Value {
	return deepCopy(v, map[any]Value{})
}

func deepCopy(v Value, copied map[any]Value) Value {
	switch v.kind {
	case KindList:
		src := v.List()
		if dup, ok := copied[src]; ok {
			return dup
		}
		dst := &List{Elements: make([]Value, len(src.Elements))}
		out := Value{kind: KindList, data: dst}
		copied[src] = out
		for i, elem := range src.Elements {
			dst.Elements[i] = deepCopy(elem, copied)
		}
		return out
	case KindDict:
		src := v.Dict()
		if dup, ok := copied[src]; ok {
			return dup
		}
		dst := &Dict{Entries: make(map[string]Value, len(src.Entries))}
		out := Value{kind: KindDict, data: dst}
		copied[src] = out
		for k, elem := range src.Entries {
			dst.Entries[k] = deepCopy(elem, copied)
		}
		return out
	case KindInstance:
		src := v.Instance()
		if dup, ok := copied[src]; ok {
			return dup
		}
		dst := &Instance{Class: src.Class, Fields: make(map[string]Value, len(src.Fields))}
		out := Value{kind: KindInstance, data: dst}
		copied[src] = out
		for k, field := range src.Fields {
			dst.Fields[k] = deepCopy(field, copied)
		}
		return out
	default:
		return v
	}
}

// Export converts v into plain Go data (nil, bool, float64, string,
// []any, map[string]any) for hosts that serialise render payloads.
// Callables and native objects export as their display string.
func Export(v Value) any {
	return export(v, map[any]bool{})
}

func export(v Value, seen map[any]bool) any {
	switch v.kind {
	case KindNil, KindVoid:
		return nil
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number()
	case KindString:
		return v.Str()
	case KindList:
		list := v.List()
		if seen[list] {
			return "[...]"
		}
		seen[list] = true
		defer delete(seen, list)
		out := make([]any, len(list.Elements))
		for i, elem := range list.Elements {
			out[i] = export(elem, seen)
		}
		return out
	case KindDict:
		dict := v.Dict()
		if seen[dict] {
			return "{...}"
		}
		seen[dict] = true
		defer delete(seen, dict)
		out := make(map[string]any, len(dict.Entries))
		for k, elem := range dict.Entries {
			out[k] = export(elem, seen)
		}
		return out
	case KindInstance:
		inst := v.Instance()
		if seen[inst] {
			return v.String()
		}
		seen[inst] = true
		defer delete(seen, inst)
		out := make(map[string]any, len(inst.Fields))
		for k, field := range inst.Fields {
			out[k] = export(field, seen)
		}
		return out
	default:
		return v.String()
	}
}
