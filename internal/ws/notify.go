package ws

import (
	"encoding/json"
	"time"

	"devconnect/internal/domain/post"
)

type PostCreatedEvent struct {
	Type      string `json:"type"`
	PostID    string `json:"post_id"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// PostCreated satisfies the post usecase's Notifier.
func (h *Hub) PostCreated(p post.Post) {
	if h == nil {
		return
	}

	evt := PostCreatedEvent{
		Type:      "post_created",
		PostID:    p.ID.String(),
		Author:    p.Name,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}
