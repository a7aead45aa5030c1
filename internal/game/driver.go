package game

import (
	"time"

	"github.com/google/uuid"
)

// Driver identifies the person behind a run.
type Driver struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	JoinedAt  time.Time `json:"joined_at"`
	BestScore int       `json:"best_score"`
}

func NewDriver(nickname string) *Driver {
	return &Driver{
		ID:       uuid.New().String(),
		Nickname: nickname,
		JoinedAt: time.Now(),
	}
}

// RecordScore keeps the best score seen for this connection.
func (d *Driver) RecordScore(score int) {
	if score > d.BestScore {
		d.BestScore = score
	}
}
