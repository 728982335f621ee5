package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a discussion post.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) View() CommentView {
	return CommentView{
		ID:        strconv.FormatUint(uint64(c.ID), 10),
		PostID:    strconv.FormatUint(uint64(c.PostID), 10),
		Author:    c.User.Author(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func CommentViews(comments []*Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.View())
	}
	return out
}
