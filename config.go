package tetris

import (
	"fmt"
	"io"
	"log"
	"time"
)

const (
	DefaultWidth       = 10
	DefaultHeight      = 22
	DefaultMaxLevel    = 10
	DefaultQueueSize   = 5
	DefaultGameOverRow = 1

	BaseGravityPeriod = 0.8
	GravityStep       = 0.007
	MinGravityPeriod  = 0.05

	LinesPerLevel = 10
)

// Config holds the fixed parameters of a session. Options fill it in before
// the board is built.
type Config struct {
	Width, Height int
	MaxLevel      int
	QueueSize     int
	// A piece that locks with any cell on or above this row ends the game.
	GameOverRow int
	Spawn       Position
}

func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		MaxLevel:    DefaultMaxLevel,
		QueueSize:   DefaultQueueSize,
		GameOverRow: DefaultGameOverRow,
		Spawn:       Position{X: DefaultWidth/2 - 2, Y: 0},
	}
}

// GravityPeriod is the time in seconds between two gravity steps at level.
func GravityPeriod(level int) float64 {
	if level < 1 {
		level = 1
	}
	period := BaseGravityPeriod - float64(level-1)*GravityStep
	if period < MinGravityPeriod {
		return MinGravityPeriod
	}
	return period
}

type GameOption func(*Game)

func WithSize(width, height int) GameOption {
	if width < 4 || height < 4 {
		panic(fmt.Errorf("minimal width x height is 4x4"))
	}
	return func(game *Game) {
		game.config.Width = width
		game.config.Height = height
		game.config.Spawn.X = width/2 - 2
	}
}

func WithMaxLevel(level int) GameOption {
	if level < 1 {
		panic(fmt.Errorf("max level must be at least 1, got %d", level))
	}
	return func(game *Game) {
		game.config.MaxLevel = level
	}
}

func WithQueueSize(count int) GameOption {
	if count < 1 {
		panic(fmt.Errorf("queue size must be at least 1, got %d", count))
	}
	return func(game *Game) {
		game.config.QueueSize = count
	}
}

// WithGameOverRow sets the sentinel row: a piece locked with a cell on or
// above it ends the game. -1 leaves only cells above the top, which the board
// cannot hold, so lower rows are rejected.
func WithGameOverRow(row int) GameOption {
	if row < -1 {
		panic(fmt.Errorf("game over row must be at least -1, got %d", row))
	}
	return func(game *Game) {
		game.config.GameOverRow = row
	}
}

// WithSpawn overrides the anchor new pieces appear at. It must be applied
// after WithSize.
func WithSpawn(anchor Position) GameOption {
	return func(game *Game) {
		game.config.Spawn = anchor
	}
}

func WithGenerator(generator PieceGenerator) GameOption {
	return func(game *Game) {
		game.generator = generator
	}
}

func WithLogger(logger *log.Logger) GameOption {
	return func(game *Game) {
		game.logger = logger
	}
}

func WithScoreHandler(handler ScoreHandler) GameOption {
	return func(game *Game) {
		game.scoreHandler = handler
	}
}

func WithPieceHandler(handler PieceHandler) GameOption {
	return func(game *Game) {
		game.pieceHandler = handler
	}
}

func WithBoardHandler(handler BoardHandler) GameOption {
	return func(game *Game) {
		game.boardHandler = handler
	}
}

func WithGameOverHandler(handler GameOverHandler) GameOption {
	return func(game *Game) {
		game.gameOverHandler = handler
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func defaultGenerator() PieceGenerator {
	return NewRandomGenerator(time.Now().UnixNano())
}
