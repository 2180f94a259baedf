package gen

import "slices"

// Selection is one relationship in the selection tree of a query.
type Selection struct {
	// Name is the attribute selected.
	Name string
	// Type is the selected type.
	Type *Type
	// Edge is the attribute, possibly synthesized for a relationship entity endpoint.
	Edge *Edge
	// Deep is set when the children of the selection were expanded.
	Deep bool
	// Children of a deep selection.
	Children []*Selection
}

// seen is the set of schema names visited on the current path. It is
// never mutated after creation.
type seen map[string]bool

func (s seen) with(name string) seen {
	next := make(seen, len(s)+1)
	for k := range s {
		next[k] = true
	}
	next[name] = true
	return next
}

// Closure computes the relationship selections of a query rooted at t.
// A plain relationship is expanded when its target was not visited on
// the current path and it cascades deletes, or force is set. Force only
// applies to the relationships of t. A relationship entity is always
// expanded to the endpoint opposite its source. The root itself is not
// on the path, so a relationship of t back to t is expanded once.
func Closure(t *Type, force bool) []*Selection {
	visited := seen{}
	var sels []*Selection
	for _, e := range t.Edges {
		if sel := expand(e, visited, force); sel != nil {
			sels = append(sels, sel)
		}
	}
	return sels
}

func expand(e *Edge, visited seen, force bool) *Selection {
	switch {
	case e.Type == nil:
		return nil
	case e.Type.Kind == KindRelation:
		return expandRelation(e, e.Type, visited)
	default:
		return expandNode(e, e.Type, visited, force)
	}
}

func expandNode(e *Edge, target *Type, visited seen, force bool) *Selection {
	sel := &Selection{
		Name: e.Name,
		Type: target,
		Edge: e,
		Deep: !visited[target.Name] && (force || e.Cascading()),
	}
	if !sel.Deep {
		return sel
	}
	next := visited.with(target.Name)
	for _, child := range target.Edges {
		if c := expand(child, next, false); c != nil {
			sel.Children = append(sel.Children, c)
		}
	}
	return sel
}

func expandRelation(e *Edge, rel *Type, visited seen) *Selection {
	sel := &Selection{Name: e.Name, Type: rel, Edge: e, Deep: true}
	end, name := rel.To, rel.ToName()
	if e.Direction == In {
		end, name = rel.From, rel.FromName()
	}
	if end == nil || end.Type == nil {
		return sel
	}
	synthetic := &Edge{
		Name:      name,
		Class:     end.Class,
		Type:      end.Type,
		Relation:  rel.Relation,
		Direction: e.Direction,
		Required:  true,
		Cascades:  e.Cascades,
		Across:    true,
	}
	sel.Children = append(sel.Children, expandNode(synthetic, end.Type, visited, false))
	return sel
}

// Fragments returns the fragment names a query rooted at t includes: the
// fragment of t, then the fragment of every selected type in depth-first
// order, without duplicates.
func Fragments(t *Type, sels []*Selection) []string {
	names := []string{t.FragmentName()}
	var walk func([]*Selection)
	walk = func(sels []*Selection) {
		for _, sel := range sels {
			name := sel.Type.FragmentName()
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
			walk(sel.Children)
		}
	}
	walk(sels)
	return names
}
