package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/JoelOtter/termloop"
	"github.com/jauhararifin/tetris-sim"
)

func main() {
	seed := flag.Int64("seed", 0, "piece generator seed, 0 picks one from the clock")
	queue := flag.Int("queue", tetris.DefaultQueueSize, "number of upcoming pieces shown")
	logPath := flag.String("log", "", "write engine log to this file")
	flag.Parse()

	logger, closeLog, err := openLogger(*logPath)
	if err != nil {
		log.Fatalf("cannot open log: %v\n", err)
	}
	defer closeLog()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	logger.Printf("seed %d\n", *seed)

	game := termloop.NewGame()
	game.Screen().SetFps(60)
	level := termloop.NewBaseLevel(termloop.Cell{})
	level.AddEntity(NewBoardPlayer(0, 0, *seed, *queue, logger))
	game.Screen().SetLevel(level)
	game.Start()
}

func openLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return log.New(f, "playtetris ", log.LstdFlags), func() { f.Close() }, nil
}

type boardPlayer struct {
	game   *tetris.Game
	x, y   int
	intent tetris.Intent
	paused bool

	scoreText, levelText, linesText *termloop.Text
	bannerText                      *termloop.Text
}

func NewBoardPlayer(x, y int, seed int64, queue int, logger *log.Logger) *boardPlayer {
	b := &boardPlayer{
		x: x,
		y: y,
		game: tetris.NewGame(
			tetris.WithGenerator(tetris.NewRandomGenerator(seed)),
			tetris.WithQueueSize(queue),
			tetris.WithLogger(logger),
		),
	}

	state := b.game.State()
	sideX := x + state.Width + 3
	b.scoreText = termloop.NewText(sideX, y+1, "", termloop.ColorWhite, termloop.ColorDefault)
	b.levelText = termloop.NewText(sideX, y+3, "", termloop.ColorWhite, termloop.ColorDefault)
	b.linesText = termloop.NewText(sideX, y+5, "", termloop.ColorWhite, termloop.ColorDefault)
	b.bannerText = termloop.NewText(x+1, y+state.Height/2, "", termloop.ColorRed, termloop.ColorDefault)
	return b
}

func (b *boardPlayer) Tick(ev termloop.Event) {
	if ev.Type != termloop.EventKey {
		return
	}

	switch ev.Key {
	case termloop.KeyArrowLeft:
		b.intent = tetris.IntentMoveLeft
	case termloop.KeyArrowRight:
		b.intent = tetris.IntentMoveRight
	case termloop.KeyArrowUp:
		b.intent = tetris.IntentRotateCW
	case termloop.KeyArrowDown:
		b.intent = tetris.IntentSoftDrop
	case termloop.KeySpace:
		b.intent = tetris.IntentHardDrop
	case termloop.KeyEsc:
		b.paused = !b.paused
	}

	switch ev.Ch {
	case 'x', 'z':
		b.intent = tetris.IntentRotateCCW
	case 'p':
		b.paused = !b.paused
	case 'r':
		b.game.Renew()
		b.paused = false
	}
}

func (b *boardPlayer) Draw(s *termloop.Screen) {
	if !b.paused {
		b.game.Tick(s.TimeDelta(), b.intent)
	}
	b.intent = tetris.IntentNone

	state := b.game.State()
	b.drawFrame(s, b.x, b.y, state.Width, state.Height)
	b.drawNext(s, state)

	b.scoreText.SetText(fmt.Sprintf("Score: %07d", state.Score.Value))
	b.levelText.SetText(fmt.Sprintf("Level: %07d", state.Level))
	b.linesText.SetText(fmt.Sprintf("Lines: %07d", state.Lines))
	b.scoreText.Draw(s)
	b.levelText.Draw(s)
	b.linesText.Draw(s)

	tiles := b.game.Render()
	for y := range tiles {
		for x, tile := range tiles[y] {
			fg := termloop.ColorWhite
			ch := rune(0)

			switch tile.Kind {
			case tetris.TilePiece:
				fg, ch = pieceColor(tile.Type), '@'
			case tetris.TileBlock:
				fg, ch = pieceColor(tile.Type), '#'
			case tetris.TileGhost:
				ch = '.'
			}

			s.RenderCell(b.x+1+x, b.y+1+y, &termloop.Cell{
				Fg: fg,
				Bg: termloop.ColorBlack,
				Ch: ch,
			})
		}
	}

	switch {
	case state.IsOver:
		b.bannerText.SetText("GAME OVER - r")
		b.bannerText.Draw(s)
	case b.paused:
		b.bannerText.SetText("PAUSED")
		b.bannerText.Draw(s)
	}
}

func (b *boardPlayer) drawFrame(s *termloop.Screen, x, y, width, height int) {
	border := &termloop.Cell{
		Fg: termloop.ColorWhite,
		Bg: termloop.ColorBlack,
		Ch: '+',
	}
	for i := 0; i < width+2; i++ {
		s.RenderCell(x+i, y, border)
		s.RenderCell(x+i, y+height+1, border)
	}
	for i := 0; i < height+2; i++ {
		s.RenderCell(x, y+i, border)
		s.RenderCell(x+width+1, y+i, border)
	}
}

func (b *boardPlayer) drawNext(s *termloop.Screen, state tetris.State) {
	if len(state.Next) == 0 {
		return
	}
	left := b.x + state.Width + 3
	top := b.y + 7
	b.drawFrame(s, left, top, 4, 4)

	next := tetris.ShapeFor(state.Next[0])
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			ch := rune(0)
			if next.Filled(y, x) {
				ch = '@'
			}
			s.RenderCell(left+1+x, top+1+y, &termloop.Cell{
				Fg: pieceColor(state.Next[0]),
				Bg: termloop.ColorBlack,
				Ch: ch,
			})
		}
	}
}

func pieceColor(t tetris.PieceType) termloop.Attr {
	switch t.Asset() {
	case "red":
		return termloop.ColorRed
	case "orange":
		return termloop.ColorRed | termloop.AttrBold
	case "yellow":
		return termloop.ColorYellow
	case "green":
		return termloop.ColorGreen
	case "blue":
		return termloop.ColorBlue
	case "cyan":
		return termloop.ColorCyan
	case "purple":
		return termloop.ColorMagenta
	}
	return termloop.ColorWhite
}
