package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Post represents a discussion post.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Text   string `gorm:"type:text;not null" json:"text"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	User   User   `gorm:"foreignKey:UserID" json:"user"`
	Likes  []Like `gorm:"foreignKey:PostID" json:"-"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// View converts the post into its wire representation.
func (p *Post) View() PostView {
	likedBy := make([]string, 0, len(p.Likes))
	for _, l := range p.Likes {
		likedBy = append(likedBy, strconv.FormatUint(uint64(l.UserID), 10))
	}
	return PostView{
		ID:           strconv.FormatUint(uint64(p.ID), 10),
		Author:       p.User.Author(),
		Text:         p.Text,
		CreatedAt:    p.CreatedAt,
		LikedBy:      likedBy,
		CommentCount: p.CommentsCount,
	}
}

// PostViews converts a slice of posts, preserving order.
func PostViews(posts []*Post) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.View())
	}
	return out
}
