// File: flips.go
// Role: the nine named local re-triangulation operators.
//
// Naming is (tets consumed)-(tets produced). Each operator takes five vertex
// arguments whose roles are fixed below; every flip and its inverse take the
// same arguments, except Flip22 whose inverse is Flip22(b,c,d,a,e).
//
//	Flip23(a,b,c,d,e): (a,b,c,d),(a,c,b,e)            → (a,b,e,d),(b,c,e,d),(c,a,e,d)
//	Flip22(a,b,c,d,e): (a,c,b,e),(a,d,c,e)            → (a,d,b,e),(b,d,c,e)
//	Flip14(a,b,c,d,v): (a,b,c,d)                      → (v,b,c,d),(a,v,c,d),(a,b,v,d),(a,b,c,v)
//	Flip13(a,b,c,d,v): (a,b,c,d), v on face (a,b,c)   → (v,b,c,d),(a,v,c,d),(a,b,v,d)
//	Flip12(a,b,c,d,v): (a,b,c,d), v on edge (a,b)     → (v,b,c,d),(a,v,c,d)
//
// For Flip23, (a,b,c) is the shared face, d the apex on its positive side and
// e the apex on the other; the new edge is (d,e). For Flip22, (a,b,c,d) is a
// boundary quadrilateral whose current diagonal is (a,c), e is the interior
// apex, and the new diagonal is (b,d).
package mesh

func flip23Sides(a, b, c, d, e VertexID) (two, three []Tet) {
	two = []Tet{{a, b, c, d}, {a, c, b, e}}
	three = []Tet{{a, b, e, d}, {b, c, e, d}, {c, a, e, d}}
	return two, three
}

// Flip23 replaces the two tetrahedra sharing face (a,b,c) by three around edge (d,e).
func (m *Mesh) Flip23(a, b, c, d, e VertexID) error {
	two, three := flip23Sides(a, b, c, d, e)
	return m.replace("Flip23", two, three)
}

// Flip32 replaces the three tetrahedra around edge (d,e) by two sharing face (a,b,c).
func (m *Mesh) Flip32(a, b, c, d, e VertexID) error {
	two, three := flip23Sides(a, b, c, d, e)
	return m.replace("Flip32", three, two)
}

// Flip22 swaps the diagonal of boundary quadrilateral (a,b,c,d) from (a,c) to (b,d).
func (m *Mesh) Flip22(a, b, c, d, e VertexID) error {
	return m.replace("Flip22",
		[]Tet{{a, c, b, e}, {a, d, c, e}},
		[]Tet{{a, d, b, e}, {b, d, c, e}})
}

func flip14Sides(a, b, c, d, v VertexID) (one, four []Tet) {
	one = []Tet{{a, b, c, d}}
	four = []Tet{{v, b, c, d}, {a, v, c, d}, {a, b, v, d}, {a, b, c, v}}
	return one, four
}

// Flip14 splits (a,b,c,d) into four tetrahedra around interior vertex v.
func (m *Mesh) Flip14(a, b, c, d, v VertexID) error {
	one, four := flip14Sides(a, b, c, d, v)
	return m.replace("Flip14", one, four)
}

// Flip41 merges the four tetrahedra around v back into (a,b,c,d).
func (m *Mesh) Flip41(a, b, c, d, v VertexID) error {
	one, four := flip14Sides(a, b, c, d, v)
	return m.replace("Flip41", four, one)
}

// Flip13 splits (a,b,c,d) into three tetrahedra around v on face (a,b,c).
func (m *Mesh) Flip13(a, b, c, d, v VertexID) error {
	one, four := flip14Sides(a, b, c, d, v)
	return m.replace("Flip13", one, four[:3])
}

// Flip31 merges the three tetrahedra around face vertex v back into (a,b,c,d).
func (m *Mesh) Flip31(a, b, c, d, v VertexID) error {
	one, four := flip14Sides(a, b, c, d, v)
	return m.replace("Flip31", four[:3], one)
}

// Flip12 splits (a,b,c,d) into two tetrahedra at v on edge (a,b).
func (m *Mesh) Flip12(a, b, c, d, v VertexID) error {
	one, four := flip14Sides(a, b, c, d, v)
	return m.replace("Flip12", one, four[:2])
}

// Flip21 merges the two tetrahedra at edge vertex v back into (a,b,c,d).
func (m *Mesh) Flip21(a, b, c, d, v VertexID) error {
	one, four := flip14Sides(a, b, c, d, v)
	return m.replace("Flip21", four[:2], one)
}
