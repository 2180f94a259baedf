package gen

import (
	"strings"

	"github.com/syssam/graphgen/compiler/load"
)

// Annotation names recognized by the scanner. They match both the simple
// and the qualified annotation class name.
const (
	NodeEntity      = "NodeEntity"
	NodeKey         = "NodeKey"
	NodeAttribute   = "NodeAttribute"
	NodeIgnore      = "NodeIgnore"
	StartNode       = "StartNode"
	EndNode         = "EndNode"
	SchemaEnum      = "SchemaEnum"
	SchemaInterface = "SchemaInterface"
	JsonProperty    = "JsonProperty"
	KotlinMetadata  = "kotlin.Metadata"
)

// source selects the members a scan pass reads.
type source uint8

const (
	fields source = iota
	getters
)

func (s source) String() string {
	if s == getters {
		return "getters"
	}
	return "fields"
}

// member is a field or a getter, seen through one shape.
type member struct {
	Name        string
	Type        *load.Type
	Annotations load.Annotations
	Static      bool
	Declaring   *load.ClassInfo
	Getter      bool
}

// members returns the declared members of cls read by src. Getters are
// public, non-static, take no parameters and start with get or is.
func members(cls *load.ClassInfo, src source) []member {
	var ms []member
	switch src {
	case fields:
		for _, f := range cls.Fields {
			if f.Static {
				continue
			}
			ms = append(ms, member{Name: f.Name, Type: f.Type, Annotations: f.Annotations, Declaring: cls})
		}
	case getters:
		for _, m := range cls.Methods {
			if m.Static || !m.Public || m.Parameters != 0 || !isGetterName(m.Name) {
				continue
			}
			ms = append(ms, member{Name: m.Name, Type: m.Type, Annotations: m.Annotations, Declaring: cls, Getter: true})
		}
	}
	return ms
}

func isGetterName(name string) bool {
	return strings.HasPrefix(name, "get") || strings.HasPrefix(name, "is")
}

func (m member) has(annotation string) bool {
	return m.Annotations.Has(annotation)
}

func (m member) annotation(name string) *load.Annotation {
	return m.Annotations.Find(name)
}

// attrName returns the schema name of the member.
func (m member) attrName() string {
	if name, ok := m.annotation(NodeAttribute).String("name"); ok && strings.TrimSpace(name) != "" {
		return name
	}
	if name, ok := m.annotation(JsonProperty).String("value"); ok && strings.TrimSpace(name) != "" {
		return name
	}
	if !m.Getter {
		return m.Name
	}
	switch {
	case strings.HasPrefix(m.Name, "get"):
		return Decapitalize(m.Name[3:])
	case strings.HasPrefix(m.Name, "is"):
		return Decapitalize(m.Name[2:])
	default:
		return Decapitalize(m.Name)
	}
}
