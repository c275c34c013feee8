package tetris

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

type Intent int

const (
	IntentNone Intent = iota
	IntentMoveLeft
	IntentMoveRight
	IntentRotateCW
	IntentRotateCCW
	IntentSoftDrop
	IntentHardDrop
)

var intentNames = [...]string{"None", "MoveLeft", "MoveRight", "RotateCW", "RotateCCW", "SoftDrop", "HardDrop"}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return "Intent(?)"
	}
	return intentNames[i]
}

type Phase int

const (
	PhaseAwaitingSpawn Phase = iota
	PhaseFalling
	PhaseLockedThisTick
	PhaseOver
)

var phaseNames = [...]string{"AwaitingSpawn", "Falling", "LockedThisTick", "Over"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Phase(?)"
	}
	return phaseNames[p]
}

// Block is a locked cell together with the type of the piece it came from.
type Block struct {
	Position
	Type PieceType
}

// PieceChange describes the active piece after a spawn, move, rotation or
// drop. Active is false once the piece has been locked into the board.
type PieceChange struct {
	Piece  Piece
	Cells  []Position
	Active bool
}

// BoardChange lists the cells a lock or a line clear filled and emptied.
type BoardChange struct {
	Added       []Block
	Removed     []Position
	ClearedRows []int
}

type ScoreHandler interface {
	OnScore(ev ScoreEvent, points int)
}

type ScoreHandlerFunc func(ev ScoreEvent, points int)

func (f ScoreHandlerFunc) OnScore(ev ScoreEvent, points int) {
	f(ev, points)
}

type PieceHandler interface {
	OnPieceChanged(change PieceChange)
}

type PieceHandlerFunc func(change PieceChange)

func (f PieceHandlerFunc) OnPieceChanged(change PieceChange) {
	f(change)
}

type BoardHandler interface {
	OnBoardChanged(change BoardChange)
}

type BoardHandlerFunc func(change BoardChange)

func (f BoardHandlerFunc) OnBoardChanged(change BoardChange) {
	f(change)
}

type GameOverHandler interface {
	OnGameOver(state State)
}

type GameOverHandlerFunc func(state State)

func (f GameOverHandlerFunc) OnGameOver(state State) {
	f(state)
}

// State is a read-only snapshot of a session.
type State struct {
	SessionID     string
	Width, Height int
	Cells         []uint8
	Active        *Piece
	Ghost         *Piece
	Next          []PieceType
	Score         Score
	Level         int
	Lines         int
	TotalLines    int
	Phase         Phase
	IsOver        bool
}

// Game runs the simulation one tick at a time. The host calls Tick once per
// frame with the elapsed seconds and the decoded intent. Handlers run after
// the tick has released the game, so they may call back into it.
type Game struct {
	config    Config
	generator PieceGenerator
	logger    *log.Logger

	scoreHandler    ScoreHandler
	pieceHandler    PieceHandler
	boardHandler    BoardHandler
	gameOverHandler GameOverHandler

	board        *Board
	queue        *Queue
	score        Score
	active       *Piece
	phase        Phase
	gravityTimer float64
	pendingClear bool
	sessionID    string

	notifications []func()
	renderFrame   [][]Tile
	m             *sync.RWMutex
}

func NewGame(options ...GameOption) *Game {
	game := &Game{
		config: DefaultConfig(),
		m:      &sync.RWMutex{},
	}
	for _, opt := range options {
		opt(game)
	}
	if game.generator == nil {
		game.generator = defaultGenerator()
	}
	if game.logger == nil {
		game.logger = discardLogger()
	}

	game.board = NewBoard(game.config)
	game.renderFrame = make([][]Tile, game.config.Height)
	for y := range game.renderFrame {
		game.renderFrame[y] = make([]Tile, game.config.Width)
	}
	game.renew()
	return game
}

// Renew throws the current session away and starts a new game.
func (g *Game) Renew() {
	g.m.Lock()
	g.renew()
	g.m.Unlock()
}

func (g *Game) renew() {
	g.board.Reset()
	g.queue = NewQueue(g.config.QueueSize, g.generator)
	g.score.Reset()
	g.active = nil
	g.phase = PhaseAwaitingSpawn
	g.gravityTimer = 0
	g.pendingClear = false
	g.notifications = nil
	g.sessionID = uuid.New().String()
	g.logger.Printf("session %s: new game on %dx%d board\n", g.sessionID, g.board.Width(), g.board.Height())
}

// Tick advances the simulation by dt seconds and applies intent. Nothing
// happens once the game is over.
func (g *Game) Tick(dt float64, intent Intent) {
	g.m.Lock()
	g.tick(dt, intent)
	notifications := g.notifications
	g.notifications = nil
	g.m.Unlock()

	for _, notify := range notifications {
		notify()
	}
}

func (g *Game) tick(dt float64, intent Intent) {
	if g.board.IsOver() {
		return
	}
	if !(dt >= 0) {
		dt = 0
	}

	if g.phase == PhaseLockedThisTick {
		g.phase = PhaseAwaitingSpawn
	}
	if g.phase == PhaseAwaitingSpawn {
		g.resolveLock()
		if !g.spawn() {
			return
		}
	}

	if !g.applyIntent(intent) {
		return
	}
	g.applyGravity(dt)
}

// resolveLock clears the rows filled by the last lock, scores them and
// moves the level on.
func (g *Game) resolveLock() {
	if !g.pendingClear {
		return
	}
	g.pendingClear = false

	before := g.board.Cells()
	cleared := g.board.ClearFullRows()
	if len(cleared) == 0 {
		return
	}
	g.notifyBoard(g.diff(before, cleared))

	g.addScore(ScoreEvent{Action: LineClearAction(len(cleared)), Lines: len(cleared)})
	if g.board.AdvanceLevelIfNeeded() {
		g.logger.Printf("session %s: level up to %d\n", g.sessionID, g.board.Level())
	}
}

func (g *Game) diff(before []uint8, cleared []int) BoardChange {
	change := BoardChange{ClearedRows: cleared}
	width := g.board.Width()
	for i, was := range before {
		p := Position{X: i % width, Y: i / width}
		now := g.board.Occupied(p)
		switch {
		case was != 0 && !now:
			change.Removed = append(change.Removed, p)
		case was == 0 && now:
			t, _ := g.board.TypeAt(p)
			change.Added = append(change.Added, Block{Position: p, Type: t})
		}
	}
	return change
}

func (g *Game) spawn() bool {
	piece := NewPiece(g.queue.PopAndSpawn(), g.board.Spawn())
	if !g.board.Fits(piece) {
		g.gameOver()
		return false
	}

	g.active = &piece
	g.phase = PhaseFalling
	g.gravityTimer = 0
	g.board.awaitingSpawn = false
	g.notifyPiece()
	return true
}

// applyIntent reports whether the piece is still falling afterwards.
func (g *Game) applyIntent(intent Intent) bool {
	switch intent {
	case IntentMoveLeft:
		if g.tryMove(Position{X: -1}) {
			g.notifyPiece()
		}
	case IntentMoveRight:
		if g.tryMove(Position{X: 1}) {
			g.notifyPiece()
		}
	case IntentRotateCW, IntentRotateCCW:
		direction := 1
		if intent == IntentRotateCCW {
			direction = -1
		}
		if rotated, ok := Rotate(direction, *g.active, g.board); ok {
			g.active = &rotated
			g.notifyPiece()
		}
	case IntentSoftDrop:
		if !g.tryMove(Position{Y: 1}) {
			g.lockDown()
			return false
		}
		g.gravityTimer = 0
		g.notifyPiece()
		g.addScore(ScoreEvent{Action: ActionSoftDrop, Cells: 1})
	case IntentHardDrop:
		g.hardDrop()
		return false
	}
	return true
}

func (g *Game) hardDrop() {
	g.board.hardDropping = true
	cells := 0
	for g.tryMove(Position{Y: 1}) {
		cells++
	}
	if cells > 0 {
		g.notifyPiece()
		g.addScore(ScoreEvent{Action: ActionHardDrop, Cells: cells})
	}
	g.lockDown()
	g.board.hardDropping = false
}

func (g *Game) applyGravity(dt float64) {
	g.gravityTimer += dt
	period := GravityPeriod(g.board.Level())
	for g.gravityTimer >= period {
		g.gravityTimer -= period
		if !g.tryMove(Position{Y: 1}) {
			g.lockDown()
			return
		}
		g.notifyPiece()
	}
}

func (g *Game) tryMove(delta Position) bool {
	moved := g.active.Moved(delta)
	if !g.board.Fits(moved) {
		return false
	}
	g.active = &moved
	return true
}

func (g *Game) lockDown() {
	piece := *g.active
	written := g.board.Lock(piece)
	g.active = nil
	g.gravityTimer = 0

	added := make([]Block, len(written))
	for i, p := range written {
		added[i] = Block{Position: p, Type: piece.Type}
	}
	g.notifyBoard(BoardChange{Added: added})
	g.notify(func(h PieceHandler) { h.OnPieceChanged(PieceChange{Piece: piece, Cells: piece.Cells()}) })

	if g.board.reachesTop(piece.Cells()) {
		g.gameOver()
		return
	}
	g.phase = PhaseLockedThisTick
	g.board.awaitingSpawn = true
	g.pendingClear = true
}

func (g *Game) gameOver() {
	g.board.setOver()
	g.active = nil
	g.phase = PhaseOver
	g.logger.Printf("session %s: game over with score %d at level %d\n", g.sessionID, g.score.Value, g.board.Level())

	if g.gameOverHandler != nil {
		state := g.state()
		handler := g.gameOverHandler
		g.notifications = append(g.notifications, func() { handler.OnGameOver(state) })
	}
}

func (g *Game) addScore(ev ScoreEvent) {
	points := g.score.Apply(g.board.Level(), ev)
	if g.scoreHandler != nil {
		handler := g.scoreHandler
		g.notifications = append(g.notifications, func() { handler.OnScore(ev, points) })
	}
}

func (g *Game) notifyPiece() {
	piece := *g.active
	g.notify(func(h PieceHandler) {
		h.OnPieceChanged(PieceChange{Piece: piece, Cells: piece.Cells(), Active: true})
	})
}

func (g *Game) notify(call func(h PieceHandler)) {
	if g.pieceHandler == nil {
		return
	}
	handler := g.pieceHandler
	g.notifications = append(g.notifications, func() { call(handler) })
}

func (g *Game) notifyBoard(change BoardChange) {
	if g.boardHandler == nil {
		return
	}
	handler := g.boardHandler
	g.notifications = append(g.notifications, func() { handler.OnBoardChanged(change) })
}

func (g *Game) ghost() *Piece {
	if g.active == nil {
		return nil
	}
	ghost := *g.active
	for {
		next := ghost.Moved(Position{Y: 1})
		if !g.board.Fits(next) {
			return &ghost
		}
		ghost = next
	}
}

func (g *Game) State() State {
	g.m.RLock()
	defer g.m.RUnlock()
	return g.state()
}

func (g *Game) state() State {
	s := State{
		SessionID:  g.sessionID,
		Width:      g.board.Width(),
		Height:     g.board.Height(),
		Cells:      g.board.Cells(),
		Ghost:      g.ghost(),
		Next:       g.queue.Peek(),
		Score:      g.score,
		Level:      g.board.Level(),
		Lines:      g.board.Lines(),
		TotalLines: g.board.TotalLines(),
		Phase:      g.phase,
		IsOver:     g.board.IsOver(),
	}
	if g.active != nil {
		active := *g.active
		s.Active = &active
	}
	return s
}

func (g *Game) SessionID() string {
	g.m.RLock()
	defer g.m.RUnlock()
	return g.sessionID
}

func (g *Game) IsOver() bool {
	g.m.RLock()
	defer g.m.RUnlock()
	return g.board.IsOver()
}

func (g *Game) Score() Score {
	g.m.RLock()
	defer g.m.RUnlock()
	return g.score
}
