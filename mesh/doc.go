// Package mesh provides the tetrahedral complex the improvement engine edits:
// vertex storage, oriented-face adjacency, and the local re-triangulation
// primitives (flips) every higher-level operation is expressed in.
//
// Representation:
//
//   - Vertices live in a slab addressed by dense VertexID handles. Deleted
//     vertices keep their slot (never reused), so per-vertex side tables held
//     by other packages can never alias a stale record.
//   - Tetrahedra live in a slab of canonical Tet values with a free list;
//     Tets() enumerates them in slab order, which makes every pass
//     deterministic for a given input.
//   - Adjacency is a map from canonical oriented face (a,b,c) to the apex d
//     such that (a,b,c,d) is a live, positively oriented tetrahedron. The
//     neighbour across face (a,b,c) is the apex of the reversed face (a,c,b);
//     when that lookup fails the face is on the boundary and the neighbour is
//     the outer sentinel Ghost.
//
// Orientation (see package geom): (a,b,c,d) is positive when d lies on the
// side of (a,b,c) its right-handed normal points to. Faces returned by
// BoundaryFaces are oriented so their right-handed normal points outward.
//
// Primitives:
//
//	AddTet / DeleteTet                     O(1)
//	Flip23 / Flip32                        two tets ↔ three tets around a new edge
//	Flip22                                 boundary quad diagonal swap
//	Flip14 / Flip41                        vertex inside a tet
//	Flip13 / Flip31                        vertex on a (boundary) face
//	Flip12 / Flip21                        vertex on an edge, one tet at a time
//
// Every primitive validates its whole effect before touching the complex, so a
// failed call leaves the mesh unchanged. The kernel checks topology only;
// callers decide whether the resulting geometry is acceptable.
//
// Concurrency: a Mesh is not safe for concurrent mutation. One improvement
// session owns one Mesh.
package mesh
