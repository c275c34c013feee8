package tetris

import "fmt"

type PieceType int

const (
	PieceI PieceType = iota
	PieceJ
	PieceL
	PieceS
	PieceZ
	PieceT
	PieceO

	PieceTypeCount = 7
)

var pieceNames = [PieceTypeCount]string{"I", "J", "L", "S", "Z", "T", "O"}

// pieceAssets names the block image each type is drawn with.
var pieceAssets = [PieceTypeCount]string{"red", "orange", "yellow", "green", "blue", "cyan", "purple"}

func (t PieceType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
	return pieceNames[t]
}

func (t PieceType) Valid() bool {
	return t >= 0 && t < PieceTypeCount
}

func (t PieceType) Asset() string {
	mustValidType(t)
	return pieceAssets[t]
}

func mustValidType(t PieceType) {
	if !t.Valid() {
		panic(fmt.Errorf("unknown piece type %d", int(t)))
	}
}

// Shape is a square occupancy grid of size 3 or 4. Cells outside the size
// are always empty, so two shapes can be compared with ==.
type Shape struct {
	size  int
	cells [4][4]bool
}

func newShape(rows ...string) Shape {
	s := Shape{size: len(rows)}
	for y, row := range rows {
		for x, c := range row {
			s.cells[y][x] = c == '#'
		}
	}
	return s
}

var baseShapes = [PieceTypeCount]Shape{
	PieceI: newShape(
		"....",
		"####",
		"....",
		"....",
	),
	PieceJ: newShape(
		"#..",
		"###",
		"...",
	),
	PieceL: newShape(
		"..#",
		"###",
		"...",
	),
	PieceS: newShape(
		".##",
		"##.",
		"...",
	),
	PieceZ: newShape(
		"##.",
		".##",
		"...",
	),
	PieceT: newShape(
		".#.",
		"###",
		"...",
	),
	PieceO: newShape(
		".##",
		".##",
		"...",
	),
}

// ShapeFor returns the spawn orientation of t.
func ShapeFor(t PieceType) Shape {
	mustValidType(t)
	return baseShapes[t]
}

func (s Shape) Size() int {
	return s.size
}

func (s Shape) Filled(row, col int) bool {
	if row < 0 || col < 0 || row >= s.size || col >= s.size {
		return false
	}
	return s.cells[row][col]
}

// Offsets lists the occupied cells relative to the top-left corner of the grid.
func (s Shape) Offsets() []Position {
	offsets := make([]Position, 0, 4)
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			if s.cells[y][x] {
				offsets = append(offsets, Position{X: x, Y: y})
			}
		}
	}
	return offsets
}

// Rotate turns the grid by 90 degrees around its centre.
func (s Shape) Rotate(clockwise bool) Shape {
	n := s.size
	rotated := Shape{size: n}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if clockwise {
				rotated.cells[j][n-1-i] = s.cells[i][j]
			} else {
				rotated.cells[n-1-j][i] = s.cells[i][j]
			}
		}
	}
	return rotated
}

func (s Shape) String() string {
	buf := make([]byte, 0, s.size*(s.size+1))
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			if s.cells[y][x] {
				buf = append(buf, '#')
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

// Rotation states: 0 is the spawn orientation, then clockwise quarter turns.
const (
	Rotation0 = iota
	RotationR
	Rotation2
	RotationL
)

func clockwiseOf(rotation int) int {
	return (rotation + 1) % 4
}

func counterClockwiseOf(rotation int) int {
	return (rotation + 3) % 4
}

// offsetTable holds, per rotation state, the offsets subtracted pairwise to
// build kick candidates. Y is in field coordinates (down is positive).
type offsetTable [4][]Position

var (
	offsetsJLSTZ = offsetTable{
		Rotation0: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		RotationR: {{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		Rotation2: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		RotationL: {{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	}

	offsetsI = offsetTable{
		Rotation0: {{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		RotationR: {{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		Rotation2: {{0, 0}, {3, 0}, {-3, 0}, {3, 1}, {-3, 1}},
		RotationL: {{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	}

	// The O grid drifts by one cell on every turn; its only candidate
	// moves it back.
	offsetsO = offsetTable{
		Rotation0: {{0, 0}},
		RotationR: {{0, 1}},
		Rotation2: {{-1, 1}},
		RotationL: {{-1, 0}},
	}
)

func offsetsFor(t PieceType) *offsetTable {
	switch t {
	case PieceI:
		return &offsetsI
	case PieceO:
		return &offsetsO
	case PieceJ, PieceL, PieceS, PieceZ, PieceT:
		return &offsetsJLSTZ
	}
	panic(fmt.Errorf("unknown piece type %d", int(t)))
}

// KickOffsets returns the anchor shifts to try, in order, when t turns from
// rotation state from to state to. The first candidate is the unkicked
// placement for every type except O.
func KickOffsets(t PieceType, from, to int) []Position {
	if from < 0 || from > 3 || to < 0 || to > 3 {
		panic(fmt.Errorf("invalid rotation transition %d -> %d", from, to))
	}

	table := offsetsFor(t)
	origin, target := table[from], table[to]
	kicks := make([]Position, len(origin))
	for i := range origin {
		kicks[i] = origin[i].Sub(target[i])
	}
	return kicks
}
