package auction

import (
	"github.com/ashwinpillai/eclauction/internal/models"
)

// UnsoldQueue holds players passed over during the primary phase, in the
// order they were marked. Resurfacing drains it strictly FIFO.
type UnsoldQueue struct {
	players []models.Player
}

// NewUnsoldQueue creates an empty queue
func NewUnsoldQueue() *UnsoldQueue {
	return &UnsoldQueue{}
}

// MarkUnsold parks a player. During the primary phase the queue is
// idempotent: a player already present stays where they are. During
// resurfacing the player moves to the tail so repeatedly-unsold players
// keep cycling to the back and are never dropped.
func (q *UnsoldQueue) MarkUnsold(p models.Player, phase Phase) {
	if phase == PhaseResurfacing {
		q.remove(p.ID)
		q.players = append(q.players, p)
		return
	}
	if q.Contains(p.ID) {
		return
	}
	q.players = append(q.players, p)
}

// MarkSold removes a player from the queue, if present
func (q *UnsoldQueue) MarkSold(playerID string) {
	q.remove(playerID)
}

// Head returns the next player to resurface
func (q *UnsoldQueue) Head() (models.Player, bool) {
	if len(q.players) == 0 {
		return models.Player{}, false
	}
	return q.players[0], true
}

// Contains reports whether a player is parked in the queue
func (q *UnsoldQueue) Contains(playerID string) bool {
	for _, p := range q.players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

// Len returns the queue length
func (q *UnsoldQueue) Len() int {
	return len(q.players)
}

// Players returns a copy of the queued players in order
func (q *UnsoldQueue) Players() []models.Player {
	out := make([]models.Player, len(q.players))
	copy(out, q.players)
	return out
}

func (q *UnsoldQueue) remove(playerID string) {
	for i, p := range q.players {
		if p.ID == playerID {
			q.players = append(q.players[:i], q.players[i+1:]...)
			return
		}
	}
}
