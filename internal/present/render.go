// Package present renders the feed store as terminal text and hosts the
// input composers. It holds no state of its own beyond the input buffer.
package present

import (
	"fmt"
	"io"
	"strings"
	"time"

	"studentvoice/internal/feed"
)

const (
	pendingMarker  = "[sending]"
	verifiedBadge  = "✔"
	commentIndent  = "    "
	separatorWidth = 60
)

// Renderer writes posts as seen by one viewer.
type Renderer struct {
	w        io.Writer
	viewerID string
	now      func() time.Time
}

func NewRenderer(w io.Writer, viewerID string) *Renderer {
	return &Renderer{w: w, viewerID: viewerID, now: time.Now}
}

// WithClock returns a copy of r that uses now for relative times.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	cp := *r
	cp.now = now
	return &cp
}

// Feed renders every post in store order, with comments for posts whose
// comments are loaded or pending.
func (r *Renderer) Feed(store *feed.Store) error {
	posts := store.Posts()
	if len(posts) == 0 {
		_, err := fmt.Fprintln(r.w, "No posts yet. Be the first to share something.")
		return err
	}
	for i, p := range posts {
		if i > 0 {
			if _, err := fmt.Fprintln(r.w, strings.Repeat("-", separatorWidth)); err != nil {
				return err
			}
		}
		comments, loaded := store.Comments(p.ID)
		if err := r.Post(p, comments, loaded); err != nil {
			return err
		}
	}
	return nil
}

// Post renders one post. comments are shown when loaded or when any are
// pending.
func (r *Renderer) Post(p feed.Post, comments []feed.Comment, loaded bool) error {
	var b strings.Builder

	b.WriteString(author(p.AuthorName, p.AuthorVerified))
	b.WriteString(" · ")
	b.WriteString(RelativeTime(p.CreatedAt, r.now()))
	if p.Provisional() {
		b.WriteString(" " + pendingMarker)
	} else {
		fmt.Fprintf(&b, "  #%s", p.ID)
	}
	b.WriteString("\n")
	b.WriteString(p.Text)
	b.WriteString("\n")

	likeLabel := "like"
	if r.viewerID != "" && p.LikedByUser(r.viewerID) {
		likeLabel = "liked by you"
	}
	fmt.Fprintf(&b, "♥ %d (%s)   💬 %d\n", len(p.LikedBy), likeLabel, p.CommentCount)

	if loaded || len(comments) > 0 {
		for _, c := range comments {
			b.WriteString(commentIndent)
			b.WriteString(author(c.AuthorName, c.AuthorVerified))
			b.WriteString(" · ")
			b.WriteString(RelativeTime(c.CreatedAt, r.now()))
			if c.Provisional() {
				b.WriteString(" " + pendingMarker)
			}
			b.WriteString(": ")
			b.WriteString(c.Text)
			b.WriteString("\n")
		}
		if loaded && len(comments) == 0 {
			b.WriteString(commentIndent + "No comments yet.\n")
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func author(name string, verified bool) string {
	if name == "" {
		name = "Anonymous"
	}
	if verified {
		return name + " " + verifiedBadge
	}
	return name
}

// RelativeTime formats t relative to now, e.g. "just now", "5m ago", "3d ago".
// Times older than a week are shown as a date.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.Format("Jan 2, 2006")
	}
}
