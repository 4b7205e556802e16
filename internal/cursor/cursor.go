// Package cursor implements the relayed-height cursor of spec section 3: an
// opaque, in-memory value carrying the last-processed source heights for
// packets and acks on each side, threaded through relay iterations.
package cursor

// Cursor records, per side and per event category, the highest source
// height below which the Link has already processed events of that
// category. All fields are optional: a nil pointer means "no prior
// progress known", and a pass with no minimum bound should be queried from
// genesis.
type Cursor struct {
	PacketHeightA *uint64
	PacketHeightB *uint64
	AckHeightA    *uint64
	AckHeightB    *uint64
}

// Empty is the zero-value cursor: no prior progress in any category.
func Empty() Cursor { return Cursor{} }

// Advance returns a new cursor with each field set to the max of the
// receiver's value and the corresponding observed height, per spec section
// 8's cursor-monotonicity law. A nil observed value leaves the field
// unchanged.
func (c Cursor) Advance(packetA, packetB, ackA, ackB *uint64) Cursor {
	return Cursor{
		PacketHeightA: maxPtr(c.PacketHeightA, packetA),
		PacketHeightB: maxPtr(c.PacketHeightB, packetB),
		AckHeightA:    maxPtr(c.AckHeightA, ackA),
		AckHeightB:    maxPtr(c.AckHeightB, ackB),
	}
}

func maxPtr(prev, observed *uint64) *uint64 {
	if observed == nil {
		return prev
	}
	if prev == nil || *observed > *prev {
		v := *observed
		return &v
	}
	return prev
}

// HighestObserved scans a slice of heights and returns a pointer to the
// maximum, or nil if the slice is empty. It is the helper relay iterations
// use to compute the Advance arguments from the packets/acks they actually
// processed.
func HighestObserved(heights []uint64) *uint64 {
	if len(heights) == 0 {
		return nil
	}
	max := heights[0]
	for _, h := range heights[1:] {
		if h > max {
			max = h
		}
	}
	return &max
}
