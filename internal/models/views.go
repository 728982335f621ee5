package models

import (
	"encoding/json"
	"time"
)

// AuthorView is the author identity denormalized onto posts and comments.
type AuthorView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// PostView is the wire shape of a post. Ids are decimal strings.
type PostView struct {
	ID           string     `json:"id"`
	Author       AuthorView `json:"author"`
	Text         string     `json:"text"`
	CreatedAt    time.Time  `json:"created_at"`
	LikedBy      []string   `json:"liked_by"`
	CommentCount int        `json:"comment_count"`
}

// CommentView is the wire shape of a comment.
type CommentView struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	Author    AuthorView `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// MentorAnswer is the structured reply of the AI mentor. When the model output
// is not valid JSON, Advice carries the raw text and the structured fields stay empty.
type MentorAnswer struct {
	Question     string          `json:"question,omitempty"`
	Answer       string          `json:"answer"`
	Advice       string          `json:"advice"`
	ChartData    json.RawMessage `json:"chart_data"`
	LearningPlan json.RawMessage `json:"learning_plan"`
	YoutubeLinks []string        `json:"youtube_links"`
	Fallback     bool            `json:"fallback"`
	AskedAt      time.Time       `json:"asked_at"`
}

// VerificationResult reports the outcome of a selfie/ID-card comparison.
type VerificationResult struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
}
