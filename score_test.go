package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoints(t *testing.T) {
	cases := []struct {
		name  string
		level int
		ev    ScoreEvent
		want  int
	}{
		{"single level 1", 1, ScoreEvent{Action: ActionSingle, Lines: 1}, 100},
		{"double level 2", 2, ScoreEvent{Action: ActionDouble, Lines: 2}, 600},
		{"triple level 1", 1, ScoreEvent{Action: ActionTriple, Lines: 3}, 500},
		{"tetris level 3", 3, ScoreEvent{Action: ActionTetris, Lines: 4}, 2400},
		{"t-spin double level 2", 2, ScoreEvent{Action: ActionTSpinDouble, Lines: 2}, 2400},
		{"back to back level 1", 1, ScoreEvent{Action: ActionBackToBackBonus}, 5400},
		{"soft drop ignores level", 7, ScoreEvent{Action: ActionSoftDrop, Cells: 5}, 5},
		{"hard drop ignores level", 7, ScoreEvent{Action: ActionHardDrop, Cells: 5}, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Points(c.level, c.ev))
		})
	}
}

func TestLineClearAction(t *testing.T) {
	assert.Equal(t, ActionSingle, LineClearAction(1))
	assert.Equal(t, ActionDouble, LineClearAction(2))
	assert.Equal(t, ActionTriple, LineClearAction(3))
	assert.Equal(t, ActionTetris, LineClearAction(4))
	assert.Panics(t, func() { LineClearAction(0) })
	assert.Panics(t, func() { LineClearAction(5) })
}

func TestScoreApply(t *testing.T) {
	var s Score

	assert.Equal(t, 800, s.Apply(1, ScoreEvent{Action: ActionTetris, Lines: 4}))
	assert.Equal(t, 200, s.Apply(2, ScoreEvent{Action: ActionSingle, Lines: 1}))
	assert.Equal(t, 300, s.Apply(3, ScoreEvent{Action: ActionSingle, Lines: 1}))
	assert.Equal(t, 6, s.Apply(3, ScoreEvent{Action: ActionHardDrop, Cells: 3}))

	assert.Equal(t, 1306, s.Value)
	assert.Equal(t, 4, s.Lines[ActionTetris])
	assert.Equal(t, 2, s.Lines[ActionSingle])
	assert.Equal(t, 2, s.Events[ActionSingle])
	assert.Equal(t, 0, s.Lines[ActionHardDrop])
	assert.Equal(t, 1, s.Events[ActionHardDrop])

	s.Reset()
	assert.Equal(t, Score{}, s)
}

func TestScoreActionString(t *testing.T) {
	assert.Equal(t, "Tetris", ActionTetris.String())
	assert.Equal(t, "HardDrop", ActionHardDrop.String())
	assert.Equal(t, "ScoreAction(40)", ScoreAction(40).String())
}
