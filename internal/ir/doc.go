// Package ir defines the tree-view intermediate representation produced by
// the frontend, together with its canonical serialization, content hashing,
// printing and structural validation.
//
// This package depends only on internal/source. Every node carries exactly
// one source.Range; composite nodes derive theirs from a designated child,
// so a node's range never disagrees with the child it was taken from.
//
// Key design constraints:
//   - The tree is strict: each node has one owner and is reachable once
//   - Optional children are nil pointers or nil interfaces, never sentinels,
//     except EmptyTypeAnnotation which marks a parameter with no annotation
//   - Numeric literals keep their source spelling (Const.Value), never a
//     parsed number
//   - Canonical JSON carries no floats and no nulls
package ir
