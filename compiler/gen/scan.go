package gen

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/syssam/graphgen/compiler/load"
)

// rootClass is never scanned as an ancestor.
const rootClass = "java.lang.Object"

// Scanner populates a Graph from a metadata index. Scanning runs in
// three passes: schema enums, schema interfaces, then entities. Every
// failure is collected and scanning continues with the next class.
type Scanner struct {
	graph  *Graph
	index  load.Index
	loader load.ClassLoader
	log    *zap.Logger
	errs   []error
}

// NewScanner returns a scanner adding to g. A nil loader defaults to an
// IndexLoader over idx.
func NewScanner(g *Graph, idx load.Index, loader load.ClassLoader) *Scanner {
	if loader == nil {
		loader = load.NewIndexLoader(idx)
	}
	return &Scanner{graph: g, index: idx, loader: loader, log: g.log()}
}

// Scan runs every pass and returns the collected errors.
func (s *Scanner) Scan() []error {
	s.log.Info("begin scan index")
	s.scanEnums()
	s.scanInterfaces()
	s.scanTypes()
	return s.errs
}

func (s *Scanner) fail(errs ...error) {
	for _, err := range errs {
		s.log.Debug("scan error", zap.Error(err))
	}
	s.errs = append(s.errs, errs...)
}

// classTargets returns the classes annotated with name, in index order.
func (s *Scanner) classTargets(name string) []load.Target {
	return slices.DeleteFunc(s.index.Annotated(name), func(t load.Target) bool {
		return t.Kind != load.TargetClass
	})
}

func (s *Scanner) scanEnums() {
	for _, target := range s.classTargets(SchemaEnum) {
		cls := target.Class
		s.log.Debug("scan schema enum", zap.String("class", cls.Name))
		if !cls.Enum {
			s.fail(NewClassError(cls.Name, "@SchemaEnum is only supported on enums", nil))
			continue
		}
		if s.graph.HasEnum(cls.Name) {
			continue
		}
		loaded, err := s.loader.LoadClass(cls.Name)
		if err != nil {
			s.fail(NewClassError(cls.Name, "unresolvable reference to enum", err))
			continue
		}
		s.graph.AddEnum(cls.Name, &Scalar{
			Name:   schemaName(target.Annotation, cls),
			Values: uniq(loaded.EnumConstants),
		})
	}
}

func (s *Scanner) scanInterfaces() {
	for _, target := range s.classTargets(SchemaInterface) {
		cls := target.Class
		s.log.Debug("scan schema interface", zap.String("class", cls.Name))
		if !cls.Interface {
			s.fail(NewClassError(cls.Name, "@SchemaInterface is only supported on interfaces", nil))
			continue
		}
		t, errs := s.buildInterface(cls, schemaName(target.Annotation, cls))
		if len(errs) > 0 {
			s.fail(errs...)
			continue
		}
		s.graph.AddInterface(t)
	}
}

func (s *Scanner) scanTypes() {
	for _, target := range s.classTargets(NodeEntity) {
		cls := target.Class
		s.log.Debug("scan node entity", zap.String("class", cls.Name))
		if cls.Interface {
			s.fail(NewClassError(cls.Name, "@NodeEntity is only supported on classes", nil))
			continue
		}
		kind, err := entityKind(target.Annotation)
		if err != nil {
			s.fail(NewClassError(cls.Name, err.Error(), nil))
			continue
		}
		promoted, err := s.scanSuper(cls, kind)
		if err != nil {
			s.fail(err)
			continue
		}
		t, errs := s.scanEntity(cls, kind)
		if len(errs) > 0 {
			s.fail(errs...)
			continue
		}
		for _, i := range promoted {
			t.AddInterface(i)
		}
		s.graph.AddType(t)
	}
}

// entityKind reads the type element of @NodeEntity.
func entityKind(a *load.Annotation) (Kind, error) {
	v, _ := a.Enum("type")
	switch strings.ToUpper(v) {
	case "", "NODE":
		return KindNode, nil
	case "RELATION":
		return KindRelation, nil
	default:
		return 0, fmt.Errorf("unknown entity type %q", v)
	}
}

// schemaName reads the schemaName element of @SchemaEnum and
// @SchemaInterface, defaulting to the simple class name.
func schemaName(a *load.Annotation, cls *load.ClassInfo) string {
	if name, ok := a.String("schemaName"); ok && strings.TrimSpace(name) != "" {
		return name
	}
	return cls.SimpleName()
}

// ancestors returns cls followed by its indexed superclasses, nearest first.
func (s *Scanner) ancestors(cls *load.ClassInfo) []*load.ClassInfo {
	chain := []*load.ClassInfo{cls}
	seen := map[string]bool{cls.Name: true}
	for c := cls; c.Superclass != "" && !seen[c.Superclass]; {
		sup := s.index.Class(c.Superclass)
		if sup == nil {
			break
		}
		seen[sup.Name] = true
		chain = append(chain, sup)
		c = sup
	}
	return chain
}

// scanSuper walks the superclasses of cls from the root down. Entity
// ancestors are registered as types, other ancestors are promoted to
// interfaces. It returns the interfaces the descendant implements.
func (s *Scanner) scanSuper(cls *load.ClassInfo, kind Kind) ([]*Type, error) {
	var (
		chain    = s.ancestors(cls)
		promoted []*Type
	)
	for i := len(chain) - 1; i > 0; i-- {
		sup, sub := chain[i], chain[i-1]
		if sup.Name == rootClass {
			continue
		}
		if s.graph.HasType(sup.Name) {
			if it := s.graph.Interface(sup.Name); it != nil {
				promoted = append(promoted, it)
			}
			continue
		}
		if sup.Annotations.Has(NodeIgnore) {
			continue
		}
		entity := sup.Annotations.Find(NodeEntity)
		supKind := kind
		if entity != nil {
			k, err := entityKind(entity)
			if err != nil {
				return nil, NewClassError(sup.Name, err.Error(), nil)
			}
			supKind = k
		}
		if supKind != kind {
			return nil, NewClassError(sup.Name, fmt.Sprintf("entity type %s does not match subclass %s", supKind, sub.Name), nil)
		}
		if entity != nil {
			// Errors of an entity ancestor are reported when it is scanned itself.
			if t, errs := s.scanEntity(sup, supKind); len(errs) == 0 {
				s.graph.AddType(t)
			}
			continue
		}
		it, errs := s.buildInterface(sup, "")
		if len(errs) > 0 {
			s.fail(errs...)
			continue
		}
		s.graph.AddInterface(it)
		promoted = append(promoted, it)
	}
	return promoted, nil
}

// buildInterface builds an interface type. A class is promoted with its
// fields as the primary source and its getters as overrides.
func (s *Scanner) buildInterface(cls *load.ClassInfo, name string) (*Type, []error) {
	kind := KindInterface
	if !cls.Interface {
		kind = KindAbstract
	}
	if name == "" {
		name = cls.SimpleName() + s.graph.suffix()
	}
	t := NewType(kind, cls.Name, name)
	var errs []error
	if !cls.Interface {
		errs = s.scanMembers(cls, t, fields, false)
	}
	errs = append(errs, s.scanInterfaceGetters(cls, t, map[string]bool{})...)
	return t, errs
}

// scanInterfaceGetters scans the getters of cls and of its indexed
// super-interfaces.
func (s *Scanner) scanInterfaceGetters(cls *load.ClassInfo, t *Type, seen map[string]bool) []error {
	if seen[cls.Name] {
		return nil
	}
	seen[cls.Name] = true
	var errs []error
	for _, m := range members(cls, getters) {
		if err := s.scanMember(t, m, !cls.Interface); err != nil {
			errs = append(errs, err)
		}
	}
	for _, name := range cls.Interfaces {
		if sup := s.index.Class(name); sup != nil {
			errs = append(errs, s.scanInterfaceGetters(sup, t, seen)...)
		}
	}
	return errs
}

// scanEntity builds the type of an entity class. The returned errors are
// attribute errors of the class, or the class error that prevented the scan.
func (s *Scanner) scanEntity(cls *load.ClassInfo, kind Kind) (*Type, []error) {
	entity, _ := cls.FindAnnotation(NodeEntity)
	labels, _ := entity.Strings("label")
	var (
		t      *Type
		marker string
	)
	switch kind {
	case KindRelation:
		if len(labels) != 1 {
			return nil, []error{NewClassError(cls.Name, "relation entity requires exactly one label", nil)}
		}
		t = NewType(kind, cls.Name, cls.SimpleName())
		t.Relation = labels[0]
		marker = EndNode
	default:
		name := cls.SimpleName()
		if len(labels) > 0 && labels[0] != "" {
			name = labels[0]
		}
		t = NewType(kind, cls.Name, name)
		marker = NodeKey
	}
	s.adoptInterfaces(cls, t)
	loc, err := s.scanLocation(cls, marker)
	if err != nil {
		return nil, []error{err}
	}
	primary, override := fields, getters
	if loc == load.TargetMethod {
		primary, override = getters, fields
	}
	s.log.Debug("scan members", zap.String("class", cls.Name), zap.Stringer("primary", primary))
	errs := s.scanMembers(cls, t, primary, false)
	errs = append(errs, s.scanMembers(cls, t, override, true)...)
	return t, errs
}

// adoptInterfaces adds every registered schema interface named in the
// interface chain of cls and its superclasses.
func (s *Scanner) adoptInterfaces(cls *load.ClassInfo, t *Type) {
	for _, c := range s.ancestors(cls) {
		for _, name := range c.Interfaces {
			if it := s.graph.Interface(name); it != nil {
				t.AddInterface(it)
			}
		}
	}
}

// scanLocation finds the element carrying the governing marker on cls or
// its nearest superclass.
func (s *Scanner) scanLocation(cls *load.ClassInfo, marker string) (load.TargetKind, error) {
	for _, c := range s.ancestors(cls) {
		if a, kind := c.FindAnnotation(marker); a != nil {
			return kind, nil
		}
	}
	return 0, NewClassError(cls.Name, fmt.Sprintf("unable to find @%s for class", marker), nil)
}

// scanMembers scans the members of cls and its superclasses read by src.
// In an override pass only members marked @NodeAttribute or @NodeIgnore
// are considered.
func (s *Scanner) scanMembers(cls *load.ClassInfo, t *Type, src source, override bool) []error {
	var errs []error
	for _, c := range s.ancestors(cls) {
		for _, m := range members(c, src) {
			if err := s.scanMember(t, m, override); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// scanMember adds one member to t.
func (s *Scanner) scanMember(t *Type, m member, override bool) error {
	if override && !m.has(NodeAttribute) && !m.has(NodeIgnore) {
		return nil
	}
	name := m.attrName()
	if m.has(NodeIgnore) {
		if elem := s.elementOf(m); elem != nil {
			s.graph.IgnoreMention(elem.Name, m.Declaring.Name, name)
		}
		t.Ignore(name)
		return nil
	}
	switch {
	case m.has(StartNode):
		if t.Kind != KindRelation {
			return NewAttributeError(t.Class, name, "encountered @StartNode in non-relation node entity", nil)
		}
		if t.From == nil {
			t.SetFrom(name, m.Type.Name)
		}
		return nil
	case m.has(EndNode):
		if t.Kind != KindRelation {
			return NewAttributeError(t.Class, name, "encountered @EndNode in non-relation node entity", nil)
		}
		if t.To == nil {
			t.SetTo(name, m.Type.Name)
		}
		return nil
	}
	c, err := s.classify(t, m, name)
	if err != nil {
		return err
	}
	if c.Scalar != nil {
		f := &Field{
			Name:       name,
			Scalar:     c.Scalar,
			Required:   c.Required,
			Collection: c.Collection,
			Class:      c.Element.Name,
		}
		if t.AddField(f) && m.has(NodeKey) {
			t.AddKey(f)
		}
		return nil
	}
	e, err := s.edge(t, m, name, c)
	if err != nil {
		return err
	}
	s.graph.AddMention(e.Class, m.Declaring.Name, name)
	_, err = t.AddEdge(e)
	return err
}

// edge builds a relationship attribute.
func (s *Scanner) edge(t *Type, m member, name string, c *classified) (*Edge, error) {
	attr := m.annotation(NodeAttribute)
	e := &Edge{
		Name:       name,
		Class:      c.Element.Name,
		Required:   c.Required,
		Collection: c.Collection,
	}
	if rel, ok := s.relationOf(c.Element.Name); ok {
		e.Relation, e.Across = rel, true
	} else if rel, ok := attr.String("relation"); ok && rel != "" {
		e.Relation = rel
	} else {
		return nil, NewAttributeError(t.Class, name, fmt.Sprintf("non-scalar property '%s' requires @NodeAttribute with relationship", name), nil)
	}
	dir, _ := attr.Enum("direction")
	d, err := ParseDirection(dir)
	if err != nil {
		return nil, NewAttributeError(t.Class, name, "invalid relationship direction", err)
	}
	e.Direction = d
	if cascades, ok := attr.Enums("cascade"); ok {
		e.Cascades = cascades
	}
	return e, nil
}

// relationOf returns the label of an indexed relationship entity class.
func (s *Scanner) relationOf(class string) (string, bool) {
	cls := s.index.Class(class)
	if cls == nil {
		return "", false
	}
	entity := cls.Annotations.Find(NodeEntity)
	if kind, err := entityKind(entity); entity == nil || err != nil || kind != KindRelation {
		return "", false
	}
	labels, _ := entity.Strings("label")
	if len(labels) != 1 {
		return "", false
	}
	return labels[0], true
}

// Scan is a convenience wrapper that scans idx into a new graph and
// validates it. It returns the graph and every scan and validation error.
func Scan(c *Config, idx load.Index, loader load.ClassLoader) (*Graph, []error) {
	g := NewGraph(c)
	errs := NewScanner(g, idx, loader).Scan()
	errs = append(errs, g.Validate()...)
	return g, errs
}
