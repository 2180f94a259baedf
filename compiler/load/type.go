package load

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// TypeKind describes the shape of a type descriptor.
type TypeKind uint8

const (
	_ TypeKind = iota
	// KindPrimitive is a language primitive such as int or boolean.
	KindPrimitive
	// KindClass is a plain (non generic) class reference.
	KindClass
	// KindArray is an array of Component.
	KindArray
	// KindParameterized is a generic class reference with Arguments.
	KindParameterized
	// KindVariable is a type variable or a wildcard. It never maps to
	// a scalar, an enum or an entity.
	KindVariable
)

var kindNames = [...]string{
	KindPrimitive:     "primitive",
	KindClass:         "class",
	KindArray:         "array",
	KindParameterized: "parameterized",
	KindVariable:      "variable",
}

// String returns the kind name.
func (k TypeKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid"
}

var primitives = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"void":    true,
}

// IsPrimitive reports whether name is a language primitive.
func IsPrimitive(name string) bool {
	return primitives[name]
}

// Type is a member type descriptor as recorded in the index document.
//
// In every encoding a Type is written as a single descriptor string:
//
//	int
//	java.lang.String
//	com.acme.Person[]
//	java.util.List<com.acme.Address>
//	java.util.Map<java.lang.String, ? extends com.acme.Tag>
//
// A bare identifier without a package (T, E) denotes a type variable.
type Type struct {
	Kind      TypeKind
	Name      string
	Component *Type   // element of an array, or the bound of a wildcard
	Arguments []*Type // type arguments of a parameterized type
}

// Primitive returns a primitive descriptor.
func Primitive(name string) *Type { return &Type{Kind: KindPrimitive, Name: name} }

// Class returns a class descriptor.
func Class(name string) *Type { return &Type{Kind: KindClass, Name: name} }

// ArrayOf returns an array descriptor.
func ArrayOf(component *Type) *Type {
	return &Type{Kind: KindArray, Name: component.Name, Component: component}
}

// Parameterized returns a generic descriptor.
func Parameterized(name string, args ...*Type) *Type {
	return &Type{Kind: KindParameterized, Name: name, Arguments: args}
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) *Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the descriptor string of the type.
func (t *Type) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case KindArray:
		return t.Component.String() + "[]"
	case KindParameterized:
		args := make([]string, len(t.Arguments))
		for i, a := range t.Arguments {
			args[i] = a.String()
		}
		return t.Name + "<" + strings.Join(args, ", ") + ">"
	case KindVariable:
		if t.Name == "?" && t.Component != nil {
			return "? extends " + t.Component.String()
		}
		return t.Name
	default:
		return t.Name
	}
}

// ParseType parses a descriptor string.
func ParseType(s string) (*Type, error) {
	p := &typeParser{src: s}
	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("load: parse type %q: %w", s, err)
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("load: parse type %q: unexpected %q at offset %d", s, p.src[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) parse() (*Type, error) {
	p.skipSpace()
	var t *Type
	if p.peek() == '?' {
		p.pos++
		t = &Type{Kind: KindVariable, Name: "?"}
		p.skipSpace()
		for _, kw := range []string{"extends", "super"} {
			if strings.HasPrefix(p.src[p.pos:], kw+" ") {
				p.pos += len(kw)
				bound, err := p.parse()
				if err != nil {
					return nil, err
				}
				if kw == "extends" {
					t.Component = bound
				}
				break
			}
		}
		return t, nil
	}
	name := p.ident()
	if name == "" {
		return nil, fmt.Errorf("expected identifier at offset %d", p.pos)
	}
	switch {
	case IsPrimitive(name):
		t = Primitive(name)
	case !strings.Contains(name, "."):
		t = &Type{Kind: KindVariable, Name: name}
	default:
		t = Class(name)
	}
	p.skipSpace()
	if p.peek() == '<' {
		if t.Kind != KindClass {
			return nil, fmt.Errorf("type arguments on %s %q", t.Kind, name)
		}
		p.pos++
		t = Parameterized(name)
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			t.Arguments = append(t.Arguments, arg)
			p.skipSpace()
			switch p.peek() {
			case ',':
				p.pos++
				continue
			case '>':
				p.pos++
			default:
				return nil, fmt.Errorf("expected ',' or '>' at offset %d", p.pos)
			}
			break
		}
	}
	for {
		p.skipSpace()
		if !strings.HasPrefix(p.src[p.pos:], "[]") {
			return t, nil
		}
		p.pos += 2
		t = ArrayOf(t)
	}
}

func (p *typeParser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '.' || c == '$' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (t *Type) decodeString(s string) error {
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t *Type) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("load: type descriptor must be a string (line %d)", node.Line)
	}
	return t.decodeString(s)
}

// MarshalJSON implements json.Marshaler.
func (t *Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("load: type descriptor must be a string: %w", err)
	}
	return t.decodeString(s)
}

var (
	_ msgpack.CustomEncoder = (*Type)(nil)
	_ msgpack.CustomDecoder = (*Type)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (t *Type) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.EncodeString(t.String())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (t *Type) DecodeMsgpack(dec *msgpack.Decoder) error {
	s, err := dec.DecodeString()
	if err != nil {
		return err
	}
	return t.decodeString(s)
}
