// Package gen builds the graph schema model from a class metadata index.
//
// # Architecture
//
// The model is built in phases over a single Graph:
//
//	load.Index (annotated classes)
//	        ↓
//	   Scanner (enums → interfaces → entities)
//	        ↓
//	   Graph (types, enums, scalars, mentions)
//	        ↓
//	   Graph.Validate (resolve edges and endpoints, check mentions)
//	        ↓
//	   renderers (contrib/graphql, contrib/cypher, contrib/repository)
//	        ↓
//	   Writer → Sink
//
// # Key Types
//
//   - Graph: the accumulator of one run, owning scalars, enums and types
//   - Type: a node entity, a relationship entity or an interface, tagged by Kind
//   - Field: a scalar or enum attribute
//   - Edge: a relationship attribute
//   - Selection: a node of the relationship closure used by queries
//
// # Errors
//
// Scanning and validation never stop at the first failure. Class,
// attribute, resolve and validation errors are collected and returned
// together, and the offending class is left out of the model:
//
//	g := gen.NewGraph(cfg)
//	errs := gen.NewScanner(g, idx, nil).Scan()
//	errs = append(errs, g.Validate()...)
//	for _, err := range errs {
//	    switch {
//	    case gen.IsAttributeError(err):
//	        // a member could not be classified
//	    case gen.IsResolveError(err):
//	        // a type was removed after scanning
//	    }
//	}
package gen
