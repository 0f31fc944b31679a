package buffer

// GenerateIndices returns the static index pattern for capacity quads: two
// triangles per quad sharing the TL–BR diagonal.
func GenerateIndices(capacity int) []uint32 {
	if capacity <= 0 {
		return nil
	}
	out := make([]uint32, capacity*IndicesPerItem)
	for i, v := 0, uint32(0); i < len(out); i, v = i+IndicesPerItem, v+VerticesPerItem {
		out[i+0] = v + 0
		out[i+1] = v + 1
		out[i+2] = v + 2
		out[i+3] = v + 2
		out[i+4] = v + 3
		out[i+5] = v + 0
	}
	return out
}
