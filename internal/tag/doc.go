// Package tag models the named fields of a tag-value document.
//
// A [Tag] carries an ordered list of values plus the policy flags fixed by
// its builder: whether external configuration may override it and whether
// its section requires it. A [Registry] owns every tag of one document,
// indexed by name and grouped into sections in declaration order.
//
// Registries are built from scratch for every generation run and are never
// shared between runs.
package tag
