package diagram

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Kind distinguishes how an attribute value is written into a DOT document.
type Kind uint8

const (
	// KindString values are written as double-quoted string literals.
	KindString Kind = iota
	// KindRaw values are written verbatim. They carry Graphviz HTML-like
	// labels such as <<b>api</b>>.
	KindRaw
	// KindNumber values are written as bare numeric literals.
	KindNumber
)

// Value is a single DOT attribute value. The zero Value is the empty string.
type Value struct {
	kind Kind
	text string
	num  float64
}

// String returns a quoted string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Raw returns a value written without quoting or escaping. The caller is
// responsible for the markup being valid DOT, e.g. Raw("<<i>cache</i>>").
func Raw(markup string) Value { return Value{kind: KindRaw, text: markup} }

// HTML wraps markup in the outer angle brackets of a DOT HTML-like string,
// so HTML("<b>x</b>") is written as <<b>x</b>>.
func HTML(markup string) Value { return Raw("<" + markup + ">") }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Int returns a numeric value from an integer.
func Int(i int) Value { return Number(float64(i)) }

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// Text returns the unquoted text of a string or raw value, or the formatted
// literal of a number.
func (v Value) Text() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// Float returns the numeric payload of a number value and 0 otherwise.
func (v Value) Float() float64 { return v.num }

// DOT returns the value as it appears on the right-hand side of key=value.
func (v Value) DOT() string {
	switch v.kind {
	case KindRaw:
		return v.text
	case KindNumber:
		return v.Text()
	default:
		return quote(v.text)
	}
}

// String implements fmt.Stringer with the DOT form of the value.
func (v Value) String() string { return v.DOT() }

// quote writes s as a JSON-style string literal. Backslash sequences that are
// DOT line terminators (\l, \n, \r) are kept as-is so that left- and
// right-justified label lines survive quoting. A literal newline or carriage
// return becomes the matching DOT line terminator. Tabs are written as \t and
// other control characters as \u00XX.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			if i+1 < len(s) && isLineEscape(s[i+1]) {
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
				i++
				continue
			}
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isLineEscape(c byte) bool {
	return c == 'l' || c == 'n' || c == 'r'
}

// Attr is a single key/value pair.
type Attr struct {
	Key   string
	Value Value
}

// Attrs is an ordered attribute mapping. Keys are unique; Set on an existing
// key replaces the value in place, so insertion order is the output order.
//
// A nil Attrs and an empty non-nil Attrs both serialize to nothing. In
// [Options] the distinction matters: nil selects the built-in default while an
// empty mapping suppresses the declaration.
type Attrs []Attr

// Get returns the value stored under key.
func (a Attrs) Get(key string) (Value, bool) {
	if i := a.index(key); i >= 0 {
		return a[i].Value, true
	}
	return Value{}, false
}

// Has reports whether key is present.
func (a Attrs) Has(key string) bool { return a.index(key) >= 0 }

// Set stores v under key, keeping the position of an existing key.
func (a *Attrs) Set(key string, v Value) {
	if i := a.index(key); i >= 0 {
		(*a)[i].Value = v
		return
	}
	*a = append(*a, Attr{Key: key, Value: v})
}

// Delete removes key if present.
func (a *Attrs) Delete(key string) {
	*a = slices.DeleteFunc(*a, func(e Attr) bool { return e.Key == key })
}

// With returns a copy of a with key set to v.
func (a Attrs) With(key string, v Value) Attrs {
	out := a.Clone()
	if out == nil {
		out = Attrs{}
	}
	out.Set(key, v)
	return out
}

// Clone returns an independent copy. Cloning nil returns nil.
func (a Attrs) Clone() Attrs { return slices.Clone(a) }

// Keys returns the keys in order.
func (a Attrs) Keys() []string {
	keys := make([]string, len(a))
	for i, e := range a {
		keys[i] = e.Key
	}
	return keys
}

// WithDefaults returns a copy of a extended with every entry of defaults whose
// key a does not already hold. Existing keys win.
func (a Attrs) WithDefaults(defaults Attrs) Attrs {
	out := a.Clone()
	for _, d := range defaults {
		if !out.Has(d.Key) {
			out = append(out, d)
		}
	}
	return out
}

func (a Attrs) index(key string) int {
	return slices.IndexFunc(a, func(e Attr) bool { return e.Key == key })
}

// SerializeAttrs renders a as space-separated key=value; statements, the form
// used for graph and subgraph settings. It returns "" for an empty mapping.
func SerializeAttrs(a Attrs) string {
	if len(a) == 0 {
		return ""
	}
	parts := make([]string, len(a))
	for i, e := range a {
		parts[i] = e.Key + "=" + e.Value.DOT() + ";"
	}
	return strings.Join(parts, " ")
}

// SerializeList renders a as a bracketed attribute list with a leading space,
// the form used after node, edge and default statements. It returns "" for an
// empty mapping so that a bare statement is emitted.
func SerializeList(a Attrs) string {
	if len(a) == 0 {
		return ""
	}
	return " [ " + SerializeAttrs(a) + " ]"
}

// ValueOf converts a scalar decoded from TOML, YAML or JSON into a Value.
//
//   - strings starting with "<<" become raw HTML-like markup
//   - integers and floats become numbers
//   - booleans become the strings "true" and "false"
//   - a table {raw = "..."} becomes raw markup, {html = "..."} becomes HTML
//
// Anything else is formatted with fmt.Sprint and quoted.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		if strings.HasPrefix(x, "<<") {
			return Raw(x)
		}
		return String(x)
	case bool:
		return String(strconv.FormatBool(x))
	case int:
		return Int(x)
	case int8:
		return Int(int(x))
	case int16:
		return Int(int(x))
	case int32:
		return Int(int(x))
	case int64:
		return Number(float64(x))
	case uint:
		return Number(float64(x))
	case uint8:
		return Number(float64(x))
	case uint16:
		return Number(float64(x))
	case uint32:
		return Number(float64(x))
	case uint64:
		return Number(float64(x))
	case float32:
		return Number(float64(x))
	case float64:
		return Number(x)
	case map[string]any:
		if s, ok := x["raw"].(string); ok {
			return Raw(s)
		}
		if s, ok := x["html"].(string); ok {
			return HTML(s)
		}
	}
	return String(fmt.Sprint(v))
}

// AttrsFromMap converts a decoded mapping into Attrs using [ValueOf]. Decoded
// maps carry no order, so keys are sorted. A nil map returns nil.
func AttrsFromMap(m map[string]any) Attrs {
	if m == nil {
		return nil
	}
	out := make(Attrs, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, Attr{Key: k, Value: ValueOf(m[k])})
	}
	return out
}
