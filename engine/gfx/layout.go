package gfx

// VertexAttrib is one float32 vector attribute inside an interleaved vertex.
type VertexAttrib struct {
	Location uint32
	Size     int // components
	Offset   int // bytes
}

// VertexLayout describes an interleaved float32 vertex.
type VertexLayout struct {
	Stride     int // bytes
	Attributes []VertexAttrib
}

// Floats returns the number of float32 values per vertex.
func (l VertexLayout) Floats() int { return l.Stride / 4 }

// NewLayout builds a packed layout from component counts, assigning
// locations in order.
func NewLayout(sizes ...int) VertexLayout {
	var l VertexLayout
	off := 0
	for i, s := range sizes {
		l.Attributes = append(l.Attributes, VertexAttrib{Location: uint32(i), Size: s, Offset: off * 4})
		off += s
	}
	l.Stride = off * 4
	return l
}
