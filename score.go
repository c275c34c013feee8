package tetris

import "fmt"

type ScoreAction int

const (
	ActionSingle ScoreAction = iota
	ActionDouble
	ActionTriple
	ActionTetris
	ActionMiniTSpin
	ActionMiniTSpinSingle
	ActionTSpin
	ActionTSpinSingle
	ActionTSpinDouble
	ActionTSpinTriple
	ActionBackToBackBonus
	ActionSoftDrop
	ActionHardDrop

	ScoreActionCount = 13
)

var scoreActionNames = [ScoreActionCount]string{
	"Single", "Double", "Triple", "Tetris",
	"MiniTSpin", "MiniTSpinSingle", "TSpin", "TSpinSingle", "TSpinDouble", "TSpinTriple",
	"BackToBackBonus", "SoftDrop", "HardDrop",
}

// basePoints is multiplied by the level. Drops are scored per cell instead.
var basePoints = [ScoreActionCount]int{
	ActionSingle:          100,
	ActionDouble:          300,
	ActionTriple:          500,
	ActionTetris:          800,
	ActionMiniTSpin:       100,
	ActionMiniTSpinSingle: 200,
	ActionTSpin:           400,
	ActionTSpinSingle:     800,
	ActionTSpinDouble:     1200,
	ActionTSpinTriple:     1600,
	ActionBackToBackBonus: 5400,
}

func (a ScoreAction) String() string {
	if a < 0 || a >= ScoreActionCount {
		return fmt.Sprintf("ScoreAction(%d)", int(a))
	}
	return scoreActionNames[a]
}

// LineClearAction picks the action for rows cleared by a single lock.
func LineClearAction(rows int) ScoreAction {
	switch rows {
	case 1:
		return ActionSingle
	case 2:
		return ActionDouble
	case 3:
		return ActionTriple
	case 4:
		return ActionTetris
	}
	panic(fmt.Errorf("a single lock cannot clear %d rows", rows))
}

// ScoreEvent is emitted for every line-clear batch and every soft or hard
// drop. Lines is 0 for drops; Cells is the distance dropped.
type ScoreEvent struct {
	Action ScoreAction
	Lines  int
	Cells  int
}

// Points returns what ev is worth at level.
func Points(level int, ev ScoreEvent) int {
	switch ev.Action {
	case ActionSoftDrop:
		return ev.Cells
	case ActionHardDrop:
		return ev.Cells * 2
	}
	if ev.Action < 0 || ev.Action >= ScoreActionCount {
		panic(fmt.Errorf("unknown score action %d", int(ev.Action)))
	}
	return level * basePoints[ev.Action]
}

// Score accumulates the session total and, per action, the lines cleared
// and the number of events seen.
type Score struct {
	Value  int
	Lines  [ScoreActionCount]int
	Events [ScoreActionCount]int
}

// Apply adds ev scored at level and returns the points it was worth.
func (s *Score) Apply(level int, ev ScoreEvent) int {
	points := Points(level, ev)
	s.Value += points
	s.Lines[ev.Action] += ev.Lines
	s.Events[ev.Action]++
	return points
}

func (s *Score) Reset() {
	*s = Score{}
}
