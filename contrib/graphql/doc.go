// Package graphql renders the GraphQL documents of a schema model: the
// schema definition, one fragment per type, and the query documents of
// every node type.
//
// The documents are plain text. Verify parses them with gqlparser before
// they are written, so a model that renders to invalid GraphQL fails the
// run instead of producing broken files:
//
//	schema := graphql.SchemaDocument(g)
//	fragments := graphql.Fragments(g)
//	queries := graphql.Queries(g, nil)
//	if err := graphql.Verify(schema, fragments, queries); err != nil {
//	    return err
//	}
package graphql
