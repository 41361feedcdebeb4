package chat

import "time"

// Message is one chat line inside a competition's message board.
type Message struct {
	ID            string
	CompetitionID string
	UserID        string
	Body          string
	CreatedAt     time.Time
}

// ReadMark remembers how far a user has read a competition's board.
type ReadMark struct {
	CompetitionID string
	UserID        string
	LastReadAt    time.Time
}
