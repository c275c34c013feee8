package tetris

// Piece is one tetromino instance. Shape is already turned to Rotation and
// Anchor is the field position of the grid's top-left corner.
type Piece struct {
	Type     PieceType
	Rotation int
	Anchor   Position
	Shape    Shape
}

func NewPiece(t PieceType, anchor Position) Piece {
	return Piece{
		Type:     t,
		Rotation: Rotation0,
		Anchor:   anchor,
		Shape:    ShapeFor(t),
	}
}

// Cells returns the absolute field positions the piece occupies.
func (p Piece) Cells() []Position {
	cells := p.Shape.Offsets()
	for i := range cells {
		cells[i] = cells[i].Add(p.Anchor)
	}
	return cells
}

func (p Piece) Moved(delta Position) Piece {
	p.Anchor = p.Anchor.Add(delta)
	return p
}

// Rotated turns the grid in place; the anchor is left untouched.
func (p Piece) Rotated(clockwise bool) Piece {
	p.Shape = p.Shape.Rotate(clockwise)
	if clockwise {
		p.Rotation = clockwiseOf(p.Rotation)
	} else {
		p.Rotation = counterClockwiseOf(p.Rotation)
	}
	return p
}
