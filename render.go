package tetris

type TileKind int

const (
	TileEmpty TileKind = iota
	TileBlock
	TileGhost
	TilePiece
)

type Tile struct {
	Kind TileKind
	Type PieceType
}

// Render draws the locked cells, the ghost and the active piece into a frame
// of height rows by width columns. The frame is reused by the next call.
func (g *Game) Render() [][]Tile {
	g.m.Lock()
	defer g.m.Unlock()

	for y := 0; y < g.board.Height(); y++ {
		for x := 0; x < g.board.Width(); x++ {
			p := Position{X: x, Y: y}
			tile := Tile{}
			if t, ok := g.board.TypeAt(p); ok {
				tile = Tile{Kind: TileBlock, Type: t}
			}
			g.renderFrame[y][x] = tile
		}
	}

	if g.active == nil {
		return g.renderFrame
	}
	g.paint(*g.ghost(), TileGhost)
	g.paint(*g.active, TilePiece)
	return g.renderFrame
}

func (g *Game) paint(piece Piece, kind TileKind) {
	for _, cell := range piece.Cells() {
		if cell.X >= 0 && cell.X < g.board.Width() && cell.Y >= 0 && cell.Y < g.board.Height() {
			g.renderFrame[cell.Y][cell.X] = Tile{Kind: kind, Type: piece.Type}
		}
	}
}
