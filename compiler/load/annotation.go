package load

import (
	"fmt"
	"strings"
)

// Annotation is an annotation instance with its element values.
//
// Values are kept as decoded from the index document: strings, booleans,
// numbers and lists of those. Enum values may be written either as the bare
// constant (RELATION) or qualified (NodeEntityType.RELATION).
type Annotation struct {
	Name   string         `json:"name" yaml:"name" msgpack:"name"`
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty" msgpack:"values,omitempty"`
}

// Is reports whether the annotation has the given name. A qualified name
// must match exactly, a simple name matches the last segment.
func (a *Annotation) Is(name string) bool {
	if a == nil {
		return false
	}
	if strings.Contains(name, ".") {
		return a.Name == name
	}
	return a.Name == name || strings.HasSuffix(a.Name, "."+name)
}

// String returns a string element value.
func (a *Annotation) String(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	switch v := a.Values[key].(type) {
	case string:
		return v, true
	case []any:
		if len(v) == 1 {
			s, ok := v[0].(string)
			return s, ok
		}
	case []string:
		if len(v) == 1 {
			return v[0], true
		}
	}
	return "", false
}

// Strings returns a list element value. A single string is returned as a
// one element list.
func (a *Annotation) Strings(key string) ([]string, bool) {
	if a == nil {
		return nil, false
	}
	switch v := a.Values[key].(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Bool returns a boolean element value.
func (a *Annotation) Bool(key string) (bool, bool) {
	if a == nil {
		return false, false
	}
	switch v := a.Values[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// Enum returns an enum element value as its bare constant name.
func (a *Annotation) Enum(key string) (string, bool) {
	s, ok := a.String(key)
	if !ok {
		return "", false
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s, true
}

// Enums returns an enum array element value as bare constant names.
func (a *Annotation) Enums(key string) ([]string, bool) {
	vs, ok := a.Strings(key)
	if !ok {
		return nil, false
	}
	out := make([]string, len(vs))
	for i, s := range vs {
		if j := strings.LastIndexByte(s, '.'); j >= 0 {
			s = s[j+1:]
		}
		out[i] = s
	}
	return out, true
}

func (a *Annotation) GoString() string {
	return fmt.Sprintf("@%s%v", a.Name, a.Values)
}

// Annotations is the list of annotations on an element.
type Annotations []*Annotation

// Find returns the first annotation with the given name, or nil.
func (as Annotations) Find(name string) *Annotation {
	for _, a := range as {
		if a.Is(name) {
			return a
		}
	}
	return nil
}

// Has reports whether the named annotation is present.
func (as Annotations) Has(name string) bool {
	return as.Find(name) != nil
}
