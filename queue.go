package tetris

import (
	"fmt"
	"math/rand"
)

type PieceGenerator interface {
	Next() PieceType
}

type PieceGeneratorFunc func() PieceType

func (f PieceGeneratorFunc) Next() PieceType {
	return f()
}

// RandomGenerator draws every piece independently and uniformly. There is no
// bag, so long droughts of one type are possible.
type RandomGenerator struct {
	randomizer *rand.Rand
}

func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{
		randomizer: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomGenerator) Next() PieceType {
	return PieceType(r.randomizer.Intn(PieceTypeCount))
}

// QueueGenerator hands out a scripted sequence. Running it dry is a bug in
// the caller and panics.
type QueueGenerator struct {
	queue []PieceType
}

func NewQueueGenerator(pieces ...PieceType) *QueueGenerator {
	q := &QueueGenerator{queue: make([]PieceType, 0, len(pieces))}
	q.Push(pieces...)
	return q
}

func (q *QueueGenerator) Next() PieceType {
	if len(q.queue) == 0 {
		panic(fmt.Errorf("queue generator drained"))
	}
	t := q.queue[0]
	q.queue = q.queue[1:]
	return t
}

func (q *QueueGenerator) Push(pieces ...PieceType) {
	for _, t := range pieces {
		mustValidType(t)
	}
	q.queue = append(q.queue, pieces...)
}

func (q *QueueGenerator) Len() int {
	return len(q.queue)
}

// Queue buffers the upcoming pieces. Every pop is paired with a push so the
// look-ahead never shrinks.
type Queue struct {
	generator PieceGenerator
	pieces    []PieceType
}

func NewQueue(count int, generator PieceGenerator) *Queue {
	if count < 1 {
		panic(fmt.Errorf("queue size must be at least 1, got %d", count))
	}
	q := &Queue{
		generator: generator,
		pieces:    make([]PieceType, 0, count),
	}
	for i := 0; i < count; i++ {
		q.pieces = append(q.pieces, q.generate())
	}
	return q
}

func (q *Queue) generate() PieceType {
	t := q.generator.Next()
	mustValidType(t)
	return t
}

func (q *Queue) PeekNext() (PieceType, bool) {
	if len(q.pieces) == 0 {
		return 0, false
	}
	return q.pieces[0], true
}

// Peek returns a copy of the whole look-ahead, front first.
func (q *Queue) Peek() []PieceType {
	pieces := make([]PieceType, len(q.pieces))
	copy(pieces, q.pieces)
	return pieces
}

func (q *Queue) PopAndSpawn() PieceType {
	t := q.pieces[0]
	copy(q.pieces, q.pieces[1:])
	q.pieces[len(q.pieces)-1] = q.generate()
	return t
}

func (q *Queue) Len() int {
	return len(q.pieces)
}
