package models

import "time"

type Comment struct {
	ID             int        `json:"id"`
	ComplaintID    int        `json:"complaint_id"`
	UserID         int        `json:"user_id"`
	AuthorNickname string     `json:"author_nickname,omitempty"`
	Content        string     `json:"content"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

type CommentRequest struct {
	Content string `json:"content"`
}
