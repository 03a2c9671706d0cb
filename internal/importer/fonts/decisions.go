package fonts

import (
	"context"
	"errors"
	"sync"

	"design-importer/internal/importer/models"
)

// ============================================================
// Interactive Decision Queue
// ============================================================

var ErrNoPendingDecision = errors.New("no pending font decision")

// DecisionQueue — канал запрос/ответ емкостью 1: одновременно может
// ждать решения только одно семейство, компиляция блокируется до ответа.
type DecisionQueue struct {
	sem chan struct{}

	mu      sync.Mutex
	pending string
	active  bool
	answer  chan models.FontChoice
}

func NewDecisionQueue() *DecisionQueue {
	return &DecisionQueue{sem: make(chan struct{}, 1)}
}

// Request выставляет семейство на решение человеку и блокируется,
// пока не придет ответ через Answer либо не отменится контекст.
func (q *DecisionQueue) Request(ctx context.Context, family string) (models.FontChoice, error) {
	select {
	case q.sem <- struct{}{}:
	case <-ctx.Done():
		return models.FontChoice{}, ctx.Err()
	}
	defer func() { <-q.sem }()

	ch := make(chan models.FontChoice, 1)
	q.mu.Lock()
	q.pending = family
	q.active = true
	q.answer = ch
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.pending = ""
		q.active = false
		q.answer = nil
		q.mu.Unlock()
	}()

	select {
	case choice := <-ch:
		return choice, nil
	case <-ctx.Done():
		return models.FontChoice{}, ctx.Err()
	}
}

// Pending возвращает семейство, ожидающее решения.
func (q *DecisionQueue) Pending() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending, q.active
}

// Answer передает решение ждущему Request.
func (q *DecisionQueue) Answer(choice models.FontChoice) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.active {
		return ErrNoPendingDecision
	}
	q.answer <- choice
	q.active = false
	return nil
}
