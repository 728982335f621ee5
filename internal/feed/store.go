package feed

import (
	"errors"
	"slices"
	"sort"
	"sync"
)

var (
	ErrUnknownPost    = errors.New("post not in feed")
	ErrNotProvisional = errors.New("entity id is not provisional")
	ErrNotConfirmed   = errors.New("entity id is missing or provisional")
)

// Store is the single shared cache of posts and comments. Every exported
// method is atomic; subscribers are notified after the lock is released.
type Store struct {
	mu    sync.Mutex
	posts map[string]Post
	// comments holds confirmed comments, present only once fetched.
	comments map[string][]Comment
	// pending holds provisional comments per post.
	pending map[string][]Comment
	// tallied remembers comment ids already counted into CommentCount for
	// posts whose comment list is not loaded.
	tallied map[string]map[string]struct{}

	subs    map[int]func()
	nextSub int
}

func NewStore() *Store {
	return &Store{
		posts:    make(map[string]Post),
		comments: make(map[string][]Comment),
		pending:  make(map[string][]Comment),
		tallied:  make(map[string]map[string]struct{}),
		subs:     make(map[int]func()),
	}
}

// Subscribe registers fn to run after every change. The returned func
// removes it.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update runs fn under the lock and notifies subscribers when it reports a change.
func (s *Store) update(fn func() bool) {
	s.mu.Lock()
	changed := fn()
	var subs []func()
	if changed {
		subs = make([]func(), 0, len(s.subs))
		for _, sub := range s.subs {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub()
	}
}

// UpsertConfirmedPosts replaces the confirmed part of the feed with list.
// Provisional posts are kept. Entries in list carrying a provisional id are
// ignored.
func (s *Store) UpsertConfirmedPosts(list []Post) {
	s.update(func() bool {
		for id := range s.posts {
			if !IsProvisional(id) {
				delete(s.posts, id)
			}
		}
		for _, p := range list {
			if p.Provisional() || p.ID == "" {
				continue
			}
			s.putConfirmed(p)
		}
		for postID := range s.comments {
			if _, ok := s.posts[postID]; !ok {
				delete(s.comments, postID)
			}
		}
		for postID := range s.tallied {
			if _, ok := s.posts[postID]; !ok {
				delete(s.tallied, postID)
			}
		}
		return true
	})
}

// putConfirmed stores p as the authoritative version. A cached comment list
// whose length disagrees with the server count is stale and dropped, and its
// ids move to tallied. Tallied ids survive: a snapshot received after a
// comment was counted already includes it.
func (s *Store) putConfirmed(p Post) {
	p = p.clone()
	p.LikedBy = uniqueIDs(p.LikedBy)
	s.posts[p.ID] = p
	if list, ok := s.comments[p.ID]; ok && len(list) != p.CommentCount {
		delete(s.comments, p.ID)
		for _, c := range list {
			s.markTallied(p.ID, c.ID)
		}
	}
}

// markTallied records commentID as counted and reports whether it was new.
func (s *Store) markTallied(postID, commentID string) bool {
	seen := s.tallied[postID]
	if seen == nil {
		seen = make(map[string]struct{})
		s.tallied[postID] = seen
	}
	if _, dup := seen[commentID]; dup {
		return false
	}
	seen[commentID] = struct{}{}
	return true
}

func (s *Store) InsertProvisionalPost(p Post) error {
	if !p.Provisional() {
		return ErrNotProvisional
	}
	s.update(func() bool {
		s.posts[p.ID] = p.clone()
		return true
	})
	return nil
}

// RemoveProvisionalPost discards a provisional post. Confirmed ids are left alone.
func (s *Store) RemoveProvisionalPost(id string) bool {
	removed := false
	s.update(func() bool {
		if !IsProvisional(id) {
			return false
		}
		if _, ok := s.posts[id]; !ok {
			return false
		}
		delete(s.posts, id)
		delete(s.pending, id)
		removed = true
		return true
	})
	return removed
}

// ConfirmPost swaps the provisional post for the server's version in one step.
// If the confirmed post already arrived through another path it is overwritten,
// never duplicated.
func (s *Store) ConfirmPost(provisionalID string, p Post) error {
	if p.Provisional() || p.ID == "" {
		return ErrNotConfirmed
	}
	s.update(func() bool {
		if IsProvisional(provisionalID) {
			delete(s.posts, provisionalID)
			delete(s.pending, provisionalID)
		}
		s.putConfirmed(p)
		return true
	})
	return nil
}

// ApplyRemotePost stores a post delivered by the server outside a local
// mutation, such as a realtime event.
func (s *Store) ApplyRemotePost(p Post) error {
	if p.Provisional() || p.ID == "" {
		return ErrNotConfirmed
	}
	s.update(func() bool {
		s.putConfirmed(p)
		return true
	})
	return nil
}

// ReplaceComments installs the full confirmed comment list for postID and sets
// the post's CommentCount to its length. Pending provisional comments survive.
func (s *Store) ReplaceComments(postID string, list []Comment) {
	s.update(func() bool {
		confirmed := make([]Comment, 0, len(list))
		seen := make(map[string]struct{}, len(list))
		for _, c := range list {
			if c.Provisional() {
				continue
			}
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			c.PostID = postID
			confirmed = append(confirmed, c)
		}
		s.comments[postID] = confirmed
		delete(s.tallied, postID)
		if p, ok := s.posts[postID]; ok {
			p.CommentCount = len(confirmed)
			s.posts[postID] = p
		}
		return true
	})
}

func (s *Store) InsertProvisionalComment(postID string, c Comment) error {
	if !c.Provisional() {
		return ErrNotProvisional
	}
	s.update(func() bool {
		c.PostID = postID
		s.pending[postID] = append(s.pending[postID], c)
		return true
	})
	return nil
}

func (s *Store) RemoveProvisionalComment(postID, id string) bool {
	removed := false
	s.update(func() bool {
		list := s.pending[postID]
		i := slices.IndexFunc(list, func(c Comment) bool { return c.ID == id })
		if i < 0 {
			return false
		}
		list = slices.Delete(list, i, i+1)
		if len(list) == 0 {
			delete(s.pending, postID)
		} else {
			s.pending[postID] = list
		}
		removed = true
		return true
	})
	return removed
}

// AppendConfirmedComment removes the post's provisional comments, appends c
// and increments CommentCount by one. A comment id already seen is not counted
// twice.
func (s *Store) AppendConfirmedComment(postID string, c Comment) error {
	if c.Provisional() || c.ID == "" {
		return ErrNotConfirmed
	}
	s.update(func() bool {
		delete(s.pending, postID)
		s.addConfirmedComment(postID, c)
		return true
	})
	return nil
}

// ApplyRemoteComment records a comment delivered by the server outside a
// local mutation. Pending provisional comments are kept.
func (s *Store) ApplyRemoteComment(postID string, c Comment) error {
	if c.Provisional() || c.ID == "" {
		return ErrNotConfirmed
	}
	s.update(func() bool {
		return s.addConfirmedComment(postID, c)
	})
	return nil
}

func (s *Store) addConfirmedComment(postID string, c Comment) bool {
	c.PostID = postID
	if list, loaded := s.comments[postID]; loaded {
		if slices.ContainsFunc(list, func(x Comment) bool { return x.ID == c.ID }) {
			return false
		}
		s.comments[postID] = append(list, c)
	} else if !s.markTallied(postID, c.ID) {
		return false
	}
	if p, ok := s.posts[postID]; ok {
		p.CommentCount++
		s.posts[postID] = p
	}
	return true
}

// ToggleLikeLocally flips userID's membership in the post's LikedBy and
// returns the new state.
func (s *Store) ToggleLikeLocally(postID, userID string) (bool, error) {
	var (
		liked bool
		err   error
	)
	s.update(func() bool {
		p, ok := s.posts[postID]
		if !ok {
			err = ErrUnknownPost
			return false
		}
		liked = !p.LikedByUser(userID)
		s.posts[postID] = withLike(p, userID, liked)
		return true
	})
	return liked, err
}

// SetLiked forces userID's membership, used to undo an optimistic toggle.
func (s *Store) SetLiked(postID, userID string, liked bool) error {
	var err error
	s.update(func() bool {
		p, ok := s.posts[postID]
		if !ok {
			err = ErrUnknownPost
			return false
		}
		if p.LikedByUser(userID) == liked {
			return false
		}
		s.posts[postID] = withLike(p, userID, liked)
		return true
	})
	return err
}

func withLike(p Post, userID string, liked bool) Post {
	p = p.clone()
	if liked {
		p.LikedBy = append(p.LikedBy, userID)
	} else {
		p.LikedBy = slices.DeleteFunc(p.LikedBy, func(id string) bool { return id == userID })
	}
	return p
}

// ApplyLikeResult overwrites the post with the server's version. Last writer wins.
func (s *Store) ApplyLikeResult(p Post) error {
	return s.ApplyRemotePost(p)
}

// Posts returns the feed: provisional posts first, then confirmed posts
// newest first.
func (s *Store) Posts() []Post {
	s.mu.Lock()
	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p.clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if ap, bp := a.Provisional(), b.Provisional(); ap != bp {
			return ap
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		if len(a.ID) != len(b.ID) {
			return len(a.ID) > len(b.ID)
		}
		return a.ID > b.ID
	})
	return out
}

func (s *Store) Post(id string) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return Post{}, false
	}
	return p.clone(), true
}

// Comments returns confirmed comments followed by pending provisional ones.
// loaded reports whether the confirmed list has been fetched.
func (s *Store) Comments(postID string) (list []Comment, loaded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	confirmed, loaded := s.comments[postID]
	pending := s.pending[postID]
	list = make([]Comment, 0, len(confirmed)+len(pending))
	list = append(list, confirmed...)
	list = append(list, pending...)
	return list, loaded
}
