package tetris

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantGenerator(pt PieceType) PieceGenerator {
	return PieceGeneratorFunc(func() PieceType { return pt })
}

func newTestGame(pt PieceType, options ...GameOption) *Game {
	return NewGame(append([]GameOption{WithGenerator(constantGenerator(pt))}, options...)...)
}

type scoreRecorder struct {
	events []ScoreEvent
	points []int
}

func (r *scoreRecorder) OnScore(ev ScoreEvent, points int) {
	r.events = append(r.events, ev)
	r.points = append(r.points, points)
}

func TestGameSpawnsOnFirstTick(t *testing.T) {
	g := newTestGame(PieceT)
	assert.Equal(t, PhaseAwaitingSpawn, g.State().Phase)
	assert.Nil(t, g.State().Active)

	g.Tick(0, IntentNone)

	state := g.State()
	require.NotNil(t, state.Active)
	assert.Equal(t, PieceT, state.Active.Type)
	assert.Equal(t, Position{X: 3, Y: 0}, state.Active.Anchor)
	assert.Equal(t, PhaseFalling, state.Phase)
	assert.Len(t, state.Next, DefaultQueueSize)
}

func TestGameGravity(t *testing.T) {
	g := newTestGame(PieceT)
	g.Tick(0, IntentNone)

	g.Tick(0.5, IntentNone)
	assert.Equal(t, 0, g.State().Active.Anchor.Y)

	g.Tick(0.5, IntentNone)
	assert.Equal(t, 1, g.State().Active.Anchor.Y)

	g.Tick(1.6, IntentNone)
	assert.Equal(t, 3, g.State().Active.Anchor.Y)
	assert.Equal(t, 0, g.Score().Value, "gravity does not score")
}

func TestGameGravityLocks(t *testing.T) {
	t.Run("step by step", func(t *testing.T) {
		var changes []BoardChange
		g := newTestGame(PieceO, WithBoardHandler(BoardHandlerFunc(func(change BoardChange) {
			changes = append(changes, change)
		})))
		g.Tick(0, IntentNone)

		ticks := 0
		for g.State().Active != nil && ticks < 100 {
			g.Tick(0.8, IntentNone)
			ticks++
		}

		state := g.State()
		require.Nil(t, state.Active)
		assert.Equal(t, DefaultHeight-1, ticks, "one step per row, then the blocked step locks")
		assert.Equal(t, PhaseLockedThisTick, state.Phase)
		assert.Equal(t, 0, state.Score.Value)
		assert.Equal(t, 4, g.board.Count())
		for _, p := range []Position{{4, 20}, {5, 20}, {4, 21}, {5, 21}} {
			assert.True(t, g.board.Occupied(p), "%v", p)
		}
		require.Len(t, changes, 1)
		assert.Len(t, changes[0].Added, 4)
		assert.Empty(t, changes[0].Removed)
	})

	t.Run("one long tick stops at the first lock", func(t *testing.T) {
		g := newTestGame(PieceO)
		g.Tick(0, IntentNone)

		g.Tick(math.Inf(1), IntentNone)

		state := g.State()
		assert.Nil(t, state.Active)
		assert.Equal(t, PhaseLockedThisTick, state.Phase)
		assert.Equal(t, 4, g.board.Count())
		assert.True(t, g.board.Occupied(Position{X: 4, Y: DefaultHeight - 1}))

		g.Tick(0, IntentNone)
		require.NotNil(t, g.State().Active)
		assert.Equal(t, 0, g.State().Active.Anchor.Y)
	})
}

func TestGameIgnoresInvalidDelta(t *testing.T) {
	g := newTestGame(PieceT)
	g.Tick(0, IntentNone)

	g.Tick(math.NaN(), IntentNone)
	g.Tick(-3, IntentNone)
	assert.Equal(t, 0, g.State().Active.Anchor.Y)

	for i := 0; i < 10; i++ {
		g.Tick(0.8, IntentNone)
	}
	assert.Equal(t, 10, g.State().Active.Anchor.Y)
}

func TestGravityPeriod(t *testing.T) {
	assert.InDelta(t, 0.8, GravityPeriod(1), 1e-9)
	assert.InDelta(t, 0.793, GravityPeriod(2), 1e-9)
	assert.InDelta(t, 0.737, GravityPeriod(10), 1e-9)
	assert.InDelta(t, 0.8, GravityPeriod(0), 1e-9)
	assert.InDelta(t, MinGravityPeriod, GravityPeriod(1000), 1e-9)

	for level := 1; level < 200; level++ {
		assert.LessOrEqual(t, GravityPeriod(level+1), GravityPeriod(level))
		assert.Greater(t, GravityPeriod(level), 0.0)
	}
}

func TestGameMoveHorizontally(t *testing.T) {
	g := newTestGame(PieceI)
	g.Tick(0, IntentNone)

	for i := 0; i < 5; i++ {
		g.Tick(0, IntentMoveLeft)
	}
	assert.Equal(t, 0, g.State().Active.Anchor.X)

	for i := 0; i < 10; i++ {
		g.Tick(0, IntentMoveRight)
	}
	assert.Equal(t, 6, g.State().Active.Anchor.X)
}

func TestGameMoveBlockedByStack(t *testing.T) {
	g := newTestGame(PieceI)
	setCell(g.board, 2, 1, PieceZ)
	setCell(g.board, 7, 1, PieceZ)
	g.Tick(0, IntentNone)

	g.Tick(0, IntentMoveLeft)
	assert.Equal(t, 3, g.State().Active.Anchor.X)

	g.Tick(0, IntentMoveRight)
	assert.Equal(t, 3, g.State().Active.Anchor.X)
	assert.Equal(t, PhaseFalling, g.State().Phase)
}

func TestGameRotate(t *testing.T) {
	g := newTestGame(PieceT)
	g.Tick(0, IntentRotateCW)
	assert.Equal(t, RotationR, g.State().Active.Rotation)

	g.Tick(0, IntentRotateCCW)
	g.Tick(0, IntentRotateCCW)
	assert.Equal(t, RotationL, g.State().Active.Rotation)
}

func TestGameSoftDrop(t *testing.T) {
	rec := &scoreRecorder{}
	g := newTestGame(PieceO, WithScoreHandler(rec))
	g.Tick(0, IntentNone)

	for i := 0; i < 5; i++ {
		g.Tick(0, IntentSoftDrop)
	}

	assert.Equal(t, 5, g.State().Active.Anchor.Y)
	assert.Equal(t, 5, g.Score().Value)
	assert.Equal(t, 5, g.Score().Events[ActionSoftDrop])
	require.Len(t, rec.events, 5)
	assert.Equal(t, ScoreEvent{Action: ActionSoftDrop, Cells: 1}, rec.events[0])
}

func TestGameSoftDropLocksWhenBlocked(t *testing.T) {
	g := newTestGame(PieceO)
	g.Tick(0, IntentHardDrop)
	g.Tick(0, IntentNone)

	for i := 0; i < 30; i++ {
		g.Tick(0, IntentSoftDrop)
	}

	assert.Equal(t, 8, g.board.Count())
}

func TestGameHardDropFromSpawn(t *testing.T) {
	rec := &scoreRecorder{}
	g := newTestGame(PieceI, WithScoreHandler(rec))

	g.Tick(0, IntentHardDrop)

	state := g.State()
	assert.Nil(t, state.Active)
	assert.Equal(t, PhaseLockedThisTick, state.Phase)
	require.Len(t, rec.events, 1)
	spawnRow := 1
	assert.Equal(t, ScoreEvent{Action: ActionHardDrop, Cells: DefaultHeight - 1 - spawnRow}, rec.events[0])
	assert.Equal(t, 40, state.Score.Value)
	for x := 3; x <= 6; x++ {
		assert.True(t, g.board.Occupied(Position{X: x, Y: DefaultHeight - 1}))
	}
	assert.Equal(t, 4, g.board.Count())

	g.Tick(0, IntentNone)
	assert.Equal(t, PhaseFalling, g.State().Phase)
	assert.NotNil(t, g.State().Active)
}

func TestGameSingleLineClear(t *testing.T) {
	rec := &scoreRecorder{}
	var changes []BoardChange
	g := newTestGame(PieceI,
		WithSize(4, 8),
		WithScoreHandler(rec),
		WithBoardHandler(BoardHandlerFunc(func(change BoardChange) {
			changes = append(changes, change)
		})),
	)

	g.Tick(0, IntentHardDrop)
	require.Len(t, changes, 1)
	assert.Len(t, changes[0].Added, 4)
	assert.Equal(t, PieceI, changes[0].Added[0].Type)
	assert.True(t, g.board.isRowFull(7))

	g.Tick(0, IntentNone)

	require.Len(t, changes, 2)
	assert.Equal(t, []int{7}, changes[1].ClearedRows)
	assert.Len(t, changes[1].Removed, 4)
	assert.Empty(t, changes[1].Added)

	require.Len(t, rec.events, 2)
	assert.Equal(t, ScoreEvent{Action: ActionSingle, Lines: 1}, rec.events[1])
	assert.Equal(t, 100, rec.points[1])

	state := g.State()
	assert.Equal(t, 112, state.Score.Value)
	assert.Equal(t, 1, state.TotalLines)
	assert.Equal(t, 1, state.Score.Lines[ActionSingle])
	assert.Equal(t, 0, g.board.Count())
}

func TestGameTetrisAtLevelThree(t *testing.T) {
	rec := &scoreRecorder{}
	g := newTestGame(PieceI, WithScoreHandler(rec))
	for y := 18; y < DefaultHeight; y++ {
		fillRow(g.board, y, 9)
	}
	g.board.level = 3

	g.Tick(0, IntentRotateCW)
	for i := 0; i < 4; i++ {
		g.Tick(0, IntentMoveRight)
	}
	require.Equal(t, 7, g.State().Active.Anchor.X)

	g.Tick(0, IntentHardDrop)
	g.Tick(0, IntentNone)

	require.Len(t, rec.events, 2)
	assert.Equal(t, ScoreEvent{Action: ActionHardDrop, Cells: 18}, rec.events[0])
	assert.Equal(t, ScoreEvent{Action: ActionTetris, Lines: 4}, rec.events[1])
	assert.Equal(t, 2400, rec.points[1])
	assert.Equal(t, 0, g.board.Count())
	assert.Equal(t, 3, g.State().Level)
}

func TestGameLevelUp(t *testing.T) {
	rec := &scoreRecorder{}
	g := newTestGame(PieceI, WithSize(4, 8), WithScoreHandler(rec))
	g.board.lines = 9

	g.Tick(0, IntentHardDrop)
	g.Tick(0, IntentNone)

	state := g.State()
	assert.Equal(t, 2, state.Level)
	assert.Equal(t, 0, state.Lines)
	assert.Equal(t, 100, rec.points[1], "clear is scored before the level-up")
}

func TestGameOverOnSpawnCollision(t *testing.T) {
	overs := 0
	var final State
	g := newTestGame(PieceT,
		WithGameOverRow(-1),
		WithGameOverHandler(GameOverHandlerFunc(func(state State) {
			overs++
			final = state
		})),
	)
	setCell(g.board, 4, 1, PieceZ)

	g.Tick(0, IntentNone)

	assert.True(t, g.IsOver())
	assert.Equal(t, 1, overs)
	assert.True(t, final.IsOver)
	assert.Equal(t, PhaseOver, final.Phase)
	assert.Nil(t, final.Active)

	cells := g.board.Cells()
	for i := 0; i < 5; i++ {
		g.Tick(1, IntentHardDrop)
		g.Tick(1, IntentMoveLeft)
	}
	assert.Equal(t, cells, g.board.Cells())
	assert.Equal(t, 1, overs)
	assert.Equal(t, 0, g.Score().Value)
}

func TestGameOverOnLockNearTop(t *testing.T) {
	g := newTestGame(PieceI)
	for y := 2; y < DefaultHeight; y++ {
		for x := 3; x <= 6; x++ {
			setCell(g.board, x, y, PieceO)
		}
	}

	g.Tick(0, IntentHardDrop)

	assert.True(t, g.IsOver())
	assert.Equal(t, PhaseOver, g.State().Phase)
	assert.True(t, g.board.Occupied(Position{X: 3, Y: 1}))
	assert.Equal(t, 0, g.Score().Value)
}

func TestGameRenew(t *testing.T) {
	g := newTestGame(PieceI)
	for y := 2; y < DefaultHeight; y++ {
		setCell(g.board, 4, y, PieceO)
	}
	g.Tick(0, IntentHardDrop)
	require.True(t, g.IsOver())
	session := g.SessionID()

	g.Renew()

	state := g.State()
	assert.False(t, state.IsOver)
	assert.NotEqual(t, session, state.SessionID)
	assert.Equal(t, PhaseAwaitingSpawn, state.Phase)
	assert.Equal(t, Score{}, state.Score)
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, 0, g.board.Count())

	g.Tick(0, IntentNone)
	assert.NotNil(t, g.State().Active)
}

func TestGameHandlersMayReadState(t *testing.T) {
	var g *Game
	var seen []PieceChange
	g = newTestGame(PieceT, WithPieceHandler(PieceHandlerFunc(func(change PieceChange) {
		seen = append(seen, change)
		_ = g.State()
	})))

	g.Tick(0, IntentNone)
	g.Tick(0, IntentHardDrop)

	require.NotEmpty(t, seen)
	assert.True(t, seen[0].Active)
	assert.Equal(t, Position{X: 3, Y: 0}, seen[0].Piece.Anchor)
	last := seen[len(seen)-1]
	assert.False(t, last.Active)
	assert.Equal(t, last.Piece.Cells(), last.Cells)
}

func TestGameRender(t *testing.T) {
	g := newTestGame(PieceI)
	g.Tick(0, IntentNone)

	frame := g.Render()

	require.Len(t, frame, DefaultHeight)
	for x := 3; x <= 6; x++ {
		assert.Equal(t, Tile{Kind: TilePiece, Type: PieceI}, frame[1][x])
		assert.Equal(t, Tile{Kind: TileGhost, Type: PieceI}, frame[DefaultHeight-1][x])
	}
	assert.Equal(t, Tile{}, frame[0][0])

	g.Tick(0, IntentHardDrop)
	frame = g.Render()
	assert.Equal(t, Tile{Kind: TileBlock, Type: PieceI}, frame[DefaultHeight-1][3])
	assert.Equal(t, Tile{}, frame[1][3])
}

func TestGameLogsLifecycle(t *testing.T) {
	buf := &bytes.Buffer{}
	g := newTestGame(PieceI, WithLogger(log.New(buf, "", 0)))
	for y := 2; y < DefaultHeight; y++ {
		setCell(g.board, 5, y, PieceO)
	}

	g.Tick(0, IntentHardDrop)

	assert.Contains(t, buf.String(), "session "+g.SessionID()+": new game")
	assert.Contains(t, buf.String(), "game over")
}

func TestGameOptionsValidate(t *testing.T) {
	assert.Panics(t, func() { WithSize(2, 10) })
	assert.Panics(t, func() { WithMaxLevel(0) })
	assert.Panics(t, func() { WithQueueSize(0) })
	assert.Panics(t, func() { WithGameOverRow(-2) })
	assert.NotPanics(t, func() { WithGameOverRow(-1) })
}
