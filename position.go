package tetris

// Position is a cell coordinate on the field. X grows to the right, Y grows
// downward and row 0 is the top row.
type Position struct {
	X, Y int
}

func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}
