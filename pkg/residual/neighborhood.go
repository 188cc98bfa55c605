package residual

// Neighborhood holds the nine heights around a grid point. The layout
// follows the finite-difference stencil, with "top" at row+1:
//
//	tl   = u(c-1, r+1)  top    = u(c, r+1)  tr    = u(c+1, r+1)
//	left = u(c-1, r  )  center = u(c, r  )  right = u(c+1, r  )
//	bl   = u(c-1, r-1)  bottom = u(c, r-1)  br    = u(c+1, r-1)
type Neighborhood [9]float64

// Indices into a Neighborhood
const (
	TL = iota
	Top
	TR
	Left
	Center
	Right
	BL
	Bottom
	BR
)

// Offsets returns the (dCol, dRow) grid offset of neighborhood slot i
func Offsets(i int) (dCol, dRow int) {
	switch i {
	case TL:
		return -1, 1
	case Top:
		return 0, 1
	case TR:
		return 1, 1
	case Left:
		return -1, 0
	case Center:
		return 0, 0
	case Right:
		return 1, 0
	case BL:
		return -1, -1
	case Bottom:
		return 0, -1
	case BR:
		return 1, -1
	}
	panic("residual: neighborhood index out of range")
}
