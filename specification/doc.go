// Package specification translates field/operator/value filters into bun
// query predicates. Values arrive as strings and are coerced to the declared
// kind of the target field, which is looked up through a TypeResolver.
package specification
