package tetris

import (
	"fmt"

	"github.com/kamstrup/intmap"
)

// Board is the playing field: an occupancy bitmap of width*height cells plus
// the level and line bookkeeping of the current session.
type Board struct {
	width, height int
	cells         []uint8
	// kinds remembers which piece type locked each occupied cell.
	kinds *intmap.Map[int, PieceType]

	level, maxLevel int
	lines           int
	totalLines      int
	isOver          bool

	spawn         Position
	gameOverRow   int
	awaitingSpawn bool

	// hardDropping is only set while the game resolves a hard drop under its
	// lock, so callers never observe it.
	hardDropping bool
}

func NewBoard(config Config) *Board {
	if config.Width < 1 || config.Height < 1 {
		panic(fmt.Errorf("invalid board size %dx%d", config.Width, config.Height))
	}
	if config.MaxLevel < 1 {
		panic(fmt.Errorf("max level must be at least 1, got %d", config.MaxLevel))
	}

	b := &Board{
		width:       config.Width,
		height:      config.Height,
		maxLevel:    config.MaxLevel,
		spawn:       config.Spawn,
		gameOverRow: config.GameOverRow,
		kinds:       intmap.New[int, PieceType](config.Width * config.Height),
	}
	b.Reset()
	return b
}

// Reset restores the state of a fresh game.
func (b *Board) Reset() {
	b.cells = make([]uint8, b.width*b.height)
	b.kinds.Clear()
	b.level = 1
	b.lines = 0
	b.totalLines = 0
	b.isOver = false
	b.awaitingSpawn = true
	b.hardDropping = false
}

func (b *Board) Width() int          { return b.width }
func (b *Board) Height() int         { return b.height }
func (b *Board) Level() int          { return b.level }
func (b *Board) MaxLevel() int       { return b.maxLevel }
func (b *Board) Lines() int          { return b.lines }
func (b *Board) TotalLines() int     { return b.totalLines }
func (b *Board) IsOver() bool        { return b.isOver }
func (b *Board) Spawn() Position     { return b.spawn }
func (b *Board) GameOverRow() int    { return b.gameOverRow }
func (b *Board) AwaitingSpawn() bool { return b.awaitingSpawn }

func (b *Board) index(p Position) int {
	return p.Y*b.width + p.X
}

func (b *Board) inside(p Position) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// Collides reports whether a block at p would hit a wall, the floor or a
// locked cell. Positions above the top row never collide.
func (b *Board) Collides(p Position) bool {
	if p.X < 0 || p.X >= b.width || p.Y >= b.height {
		return true
	}
	if p.Y < 0 {
		return false
	}
	return b.cells[b.index(p)] != 0
}

// Fits reports whether no cell of piece collides.
func (b *Board) Fits(piece Piece) bool {
	for _, cell := range piece.Cells() {
		if b.Collides(cell) {
			return false
		}
	}
	return true
}

func (b *Board) Occupied(p Position) bool {
	return b.inside(p) && b.cells[b.index(p)] != 0
}

// TypeAt returns the type of the piece that filled p.
func (b *Board) TypeAt(p Position) (PieceType, bool) {
	if !b.Occupied(p) {
		return 0, false
	}
	return b.kinds.Get(b.index(p))
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Cells returns a copy of the occupancy bitmap in row-major order.
func (b *Board) Cells() []uint8 {
	cells := make([]uint8, len(b.cells))
	copy(cells, b.cells)
	return cells
}

// Lock writes the piece into the bitmap and returns the cells written.
// Cells above the top row are dropped. Callers lock only a piece that can
// no longer move down.
func (b *Board) Lock(piece Piece) []Position {
	written := make([]Position, 0, 4)
	for _, cell := range piece.Cells() {
		if !b.inside(cell) {
			continue
		}
		i := b.index(cell)
		b.cells[i] = 1
		b.kinds.Put(i, piece.Type)
		written = append(written, cell)
	}
	return written
}

func (b *Board) isRowFull(y int) bool {
	row := b.cells[y*b.width : (y+1)*b.width]
	for _, c := range row {
		if c == 0 {
			return false
		}
	}
	return true
}

// ClearFullRows removes every full row at once and returns their indices,
// bottom row first. Each remaining row drops by the number of cleared rows
// below it and the top rows are emptied.
func (b *Board) ClearFullRows() []int {
	full := make([]bool, b.height)
	cleared := make([]int, 0, 4)
	for y := b.height - 1; y >= 0; y-- {
		if b.isRowFull(y) {
			full[y] = true
			cleared = append(cleared, y)
		}
	}
	if len(cleared) == 0 {
		return nil
	}

	shift := 0
	for y := b.height - 1; y >= 0; y-- {
		if full[y] {
			shift++
			continue
		}
		if shift > 0 {
			b.moveRow(y, y+shift)
		}
	}
	for y := 0; y < len(cleared); y++ {
		b.emptyRow(y)
	}

	b.lines += len(cleared)
	b.totalLines += len(cleared)
	return cleared
}

func (b *Board) moveRow(from, to int) {
	for x := 0; x < b.width; x++ {
		src, dst := from*b.width+x, to*b.width+x
		b.cells[dst] = b.cells[src]
		if t, ok := b.kinds.Get(src); ok {
			b.kinds.Put(dst, t)
		} else {
			b.kinds.Del(dst)
		}
	}
}

func (b *Board) emptyRow(y int) {
	for x := 0; x < b.width; x++ {
		i := y*b.width + x
		b.cells[i] = 0
		b.kinds.Del(i)
	}
}

// AdvanceLevelIfNeeded moves to the next level once level*10 lines were
// cleared since the last level-up. The line counter restarts even when the
// level is already at its cap. It reports whether the level went up.
func (b *Board) AdvanceLevelIfNeeded() bool {
	if b.lines < b.level*LinesPerLevel {
		return false
	}
	b.lines = 0
	if b.level >= b.maxLevel {
		return false
	}
	b.level++
	return true
}

func (b *Board) setOver() {
	b.isOver = true
	b.awaitingSpawn = false
	b.hardDropping = false
}

// reachesTop reports whether any of cells sits on or above the game-over row.
func (b *Board) reachesTop(cells []Position) bool {
	for _, cell := range cells {
		if cell.Y <= b.gameOverRow {
			return true
		}
	}
	return false
}
