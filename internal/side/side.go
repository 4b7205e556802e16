// Package side implements the A|B side-selector described in spec section
// 4.9: a two-variant enum plus a helper that resolves it to a (src, dest)
// view, so Link's public methods take a Side instead of duplicating every
// operation per direction.
package side

// Side disambiguates one of a Link's two endpoints.
type Side int

const (
	// A names the Link's first endpoint.
	A Side = iota
	// B names the Link's second endpoint.
	B
)

// String renders the side for logging.
func (s Side) String() string {
	if s == A {
		return "A"
	}
	return "B"
}

// Other flips A to B and B to A.
func (s Side) Other() Side {
	if s == A {
		return B
	}
	return A
}

// Ends is a (src, dest) view over two values, oriented by a Side.
type Ends[T any] struct {
	Src  T
	Dest T
}

// GetEnds returns a view in which Src is the value named by s and Dest is
// the other one, regardless of which physical slot (a or b) holds which.
func GetEnds[T any](s Side, a, b T) Ends[T] {
	if s == A {
		return Ends[T]{Src: a, Dest: b}
	}
	return Ends[T]{Src: b, Dest: a}
}
