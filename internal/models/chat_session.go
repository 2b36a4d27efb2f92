package models

// ChatMessage is one turn of a transcript. Timestamp is unix milliseconds, the
// same clock the UI uses.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// ChatSession is a persisted chat transcript, stored as one file keyed by ID.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt int64         `json:"created_at"`
	Messages  []ChatMessage `json:"messages"`
}
