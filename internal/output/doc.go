// Package output renders tag registries as tag-value documents and manages
// the artifacts they are written to.
//
// The package is organized around three concerns:
//
//   - Formats (registry.go): Named line formats ([Format]) with their tag/value
//     separator, line terminator and file naming rule, looked up through a
//     [Registry].
//
//   - Serialization (serializer.go): An [Encoder] writes the set tags of a
//     section in declaration order, one line per value in assignment order.
//
//   - Artifacts (writer.go): An [Artifact] replaces any stale file at the
//     target path with a fresh one, accepts appended sections, and is either
//     closed or aborted. [StdoutWriter] serves dry runs.
package output
