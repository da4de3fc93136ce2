// Package codegen implements the composition engine behind ArduHome.
//
// Feature generators never write the target program directly. Instead they
// contribute priority-tagged code fragments to named insertion points, and the
// root template is streamed once through Resolve, which expands every marker
// line of the form
//
//	// ArduHome <PointName>
//
// into a bracketed region holding the fragments registered at that point.
// Fragments may carry markers themselves, so expansion is recursive.
//
// A Session owns the three registries used during one compilation:
//   - Table: insertion point name -> ordered, deduplicated fragments
//   - Fragments: content-addressed intern table (code body -> symbol name)
//   - IDs: per-prefix counters for collision-free symbol names
//
// Nothing in this package is process-wide. Two sessions never share state,
// so independent documents can be compiled side by side.
package codegen
