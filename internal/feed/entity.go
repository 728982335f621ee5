// Package feed holds the client-side entity store for posts and comments.
// Server-confirmed and locally originated (provisional) entities live side by
// side and are told apart by id prefix only.
package feed

import (
	"slices"
	"strings"
	"time"

	"studentvoice/internal/models"

	"github.com/google/uuid"
)

// ProvisionalPrefix marks client-issued ids. Server ids are decimal strings and
// can never start with it.
const ProvisionalPrefix = "temp-"

// NewProvisionalID returns a fresh client-side id.
func NewProvisionalID() string {
	return ProvisionalPrefix + uuid.NewString()
}

// IsProvisional reports whether id was issued by the client.
func IsProvisional(id string) bool {
	return strings.HasPrefix(id, ProvisionalPrefix)
}

type Post struct {
	ID             string
	AuthorID       string
	AuthorName     string
	AuthorVerified bool
	Text           string
	CreatedAt      time.Time
	LikedBy        []string
	CommentCount   int
}

// Provisional reports whether the post is still awaiting confirmation.
func (p Post) Provisional() bool {
	return IsProvisional(p.ID)
}

// LikedByUser reports whether userID is in LikedBy.
func (p Post) LikedByUser(userID string) bool {
	return slices.Contains(p.LikedBy, userID)
}

func (p Post) clone() Post {
	p.LikedBy = slices.Clone(p.LikedBy)
	return p
}

type Comment struct {
	ID             string
	PostID         string
	AuthorID       string
	AuthorName     string
	AuthorVerified bool
	Text           string
	CreatedAt      time.Time
}

// Provisional reports whether the comment is still awaiting confirmation.
func (c Comment) Provisional() bool {
	return IsProvisional(c.ID)
}

// PostFromView converts the wire shape. Duplicate likers are collapsed.
func PostFromView(v models.PostView) Post {
	return Post{
		ID:             v.ID,
		AuthorID:       v.Author.ID,
		AuthorName:     v.Author.Name,
		AuthorVerified: v.Author.Verified,
		Text:           v.Text,
		CreatedAt:      v.CreatedAt,
		LikedBy:        uniqueIDs(v.LikedBy),
		CommentCount:   max(v.CommentCount, 0),
	}
}

func PostsFromViews(views []models.PostView) []Post {
	posts := make([]Post, 0, len(views))
	for _, v := range views {
		posts = append(posts, PostFromView(v))
	}
	return posts
}

func CommentFromView(v models.CommentView) Comment {
	return Comment{
		ID:             v.ID,
		PostID:         v.PostID,
		AuthorID:       v.Author.ID,
		AuthorName:     v.Author.Name,
		AuthorVerified: v.Author.Verified,
		Text:           v.Text,
		CreatedAt:      v.CreatedAt,
	}
}

func CommentsFromViews(views []models.CommentView) []Comment {
	comments := make([]Comment, 0, len(views))
	for _, v := range views {
		comments = append(comments, CommentFromView(v))
	}
	return comments
}

func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
