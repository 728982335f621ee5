// Package mutation runs user actions against the feed as optimistic
// three-phase operations: provisional local change, remote call, then
// reconcile or roll back.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"studentvoice/internal/feed"
	"studentvoice/internal/models"
	"studentvoice/internal/observability"
	"studentvoice/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

var (
	// ErrInFlight is returned when the same action on the same entity is already pending.
	ErrInFlight = errors.New("an identical action is still in progress")
	// ErrSignedOut is returned when a mutation is attempted without an identity.
	ErrSignedOut = errors.New("sign in to do that")
	// ErrPostPending is returned for likes and comments on a post that is not confirmed yet.
	ErrPostPending = errors.New("post is still being published")
)

// API is the subset of the remote client the coordinator drives.
type API interface {
	ListPosts(ctx context.Context) ([]models.PostView, error)
	GetPost(ctx context.Context, postID string) (*models.PostView, error)
	CreatePost(ctx context.Context, text string) (*models.PostView, error)
	ToggleLike(ctx context.Context, postID string) (*models.PostView, error)
	ListComments(ctx context.Context, postID string) ([]models.CommentView, error)
	AddComment(ctx context.Context, postID, text string) (*models.CommentView, error)
}

// Identity is the signed-in user shown on provisional entities.
type Identity struct {
	UserID   string
	Name     string
	Verified bool
}

type State int

const (
	Idle State = iota
	Pending
	Confirmed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

type Action string

const (
	ActionCreatePost   Action = "create_post"
	ActionAddComment   Action = "add_comment"
	ActionToggleLike   Action = "toggle_like"
	ActionRefreshPosts Action = "refresh_posts"
	ActionLoadComments Action = "load_comments"
)

const (
	kindPost = "post"

	outcomeConfirmed = "confirmed"
	outcomeFailed    = "failed"
	outcomeRejected  = "rejected"
	outcomeInvalid   = "invalid"
)

// Key identifies one mutation slot: at most one mutation per key is in flight.
type Key struct {
	Kind     string
	EntityID string
	Action   Action
}

// Notice is a user-facing report of a failed action.
type Notice struct {
	Action   Action
	EntityID string
	Message  string
	Err      error
	At       time.Time
}

type Coordinator struct {
	api    API
	store  *feed.Store
	logger *slog.Logger
	notify func(Notice)
	now    func() time.Time

	mu       sync.Mutex
	identity Identity
	states   map[Key]State
}

type Option func(*Coordinator)

func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithNoticeSink registers the receiver of failure notices.
func WithNoticeSink(fn func(Notice)) Option {
	return func(c *Coordinator) { c.notify = fn }
}

// WithClock overrides the clock used for provisional timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func New(api API, store *feed.Store, identity Identity, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:      api,
		store:    store,
		logger:   slog.Default(),
		notify:   func(Notice) {},
		now:      time.Now,
		identity: identity,
		states:   make(map[Key]State),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetIdentity replaces the signed-in user, for example after login.
func (c *Coordinator) SetIdentity(id Identity) {
	c.mu.Lock()
	c.identity = id
	c.mu.Unlock()
}

func (c *Coordinator) Identity() Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// State reports the last known state of the mutation slot k. Create-post
// slots are released once they settle and read as Idle afterwards.
func (c *Coordinator) State(k Key) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[k]
}

// begin claims k and opens its span. It fails with ErrInFlight when k is
// already pending.
func (c *Coordinator) begin(ctx context.Context, k Key) (context.Context, *observability.Span, error) {
	c.mu.Lock()
	if c.states[k] == Pending {
		c.mu.Unlock()
		return ctx, nil, ErrInFlight
	}
	c.states[k] = Pending
	c.mu.Unlock()

	span, ctx := observability.StartSpan(ctx, "mutation."+string(k.Action),
		attribute.String("mutation.entity_id", k.EntityID))
	return ctx, span, nil
}

// finish records the outcome of a begun mutation and reports failures.
func (c *Coordinator) finish(k Key, span *observability.Span, err error) {
	state, outcome := Confirmed, outcomeConfirmed
	if err != nil {
		state, outcome = Failed, outcomeFailed
	}
	c.mu.Lock()
	if k.Action == ActionCreatePost {
		delete(c.states, k)
	} else {
		c.states[k] = state
	}
	c.mu.Unlock()
	span.SetError(err)
	span.End()
	observability.ClientMutations.WithLabelValues(string(k.Action), outcome).Inc()

	if err == nil {
		c.logger.Debug("mutation confirmed", slog.String("action", string(k.Action)), slog.String("entity_id", k.EntityID))
		return
	}
	c.logger.Warn("mutation failed",
		slog.String("action", string(k.Action)),
		slog.String("entity_id", k.EntityID),
		slog.String("error", err.Error()))
	c.notify(Notice{
		Action:   k.Action,
		EntityID: k.EntityID,
		Message:  failureMessage(k.Action, err),
		Err:      err,
		At:       c.now(),
	})
}

func (c *Coordinator) reject(action Action, err error) error {
	outcome := outcomeInvalid
	if errors.Is(err, ErrInFlight) {
		outcome = outcomeRejected
	}
	observability.ClientMutations.WithLabelValues(string(action), outcome).Inc()
	return err
}

// ensurePost fetches postID into the store when it lies outside the cached
// feed page.
func (c *Coordinator) ensurePost(ctx context.Context, postID string) error {
	if _, ok := c.store.Post(postID); ok {
		return nil
	}
	view, err := c.api.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	return c.store.ApplyRemotePost(feed.PostFromView(*view))
}

// signedIn returns the current identity or ErrSignedOut.
func (c *Coordinator) signedIn() (Identity, error) {
	id := c.Identity()
	if id.UserID == "" {
		return Identity{}, ErrSignedOut
	}
	return id, nil
}

// CreatePost inserts a provisional post, publishes it and swaps in the
// server's post. On failure the provisional post is removed and the error is
// reported; nothing is retried.
func (c *Coordinator) CreatePost(ctx context.Context, text string) (feed.Post, error) {
	text, err := validation.NormalizeText(text)
	if err != nil {
		return feed.Post{}, c.reject(ActionCreatePost, err)
	}
	me, err := c.signedIn()
	if err != nil {
		return feed.Post{}, c.reject(ActionCreatePost, err)
	}

	provisional := feed.Post{
		ID:             feed.NewProvisionalID(),
		AuthorID:       me.UserID,
		AuthorName:     me.Name,
		AuthorVerified: me.Verified,
		Text:           text,
		CreatedAt:      c.now(),
		LikedBy:        []string{},
	}
	key := Key{Kind: kindPost, EntityID: provisional.ID, Action: ActionCreatePost}
	ctx, span, err := c.begin(ctx, key)
	if err != nil {
		return feed.Post{}, c.reject(ActionCreatePost, err)
	}
	if err := c.store.InsertProvisionalPost(provisional); err != nil {
		c.finish(key, span, err)
		return feed.Post{}, err
	}

	view, err := c.api.CreatePost(ctx, text)
	if err == nil {
		post := feed.PostFromView(*view)
		if err = c.store.ConfirmPost(provisional.ID, post); err == nil {
			c.finish(key, span, nil)
			return post, nil
		}
	}
	c.store.RemoveProvisionalPost(provisional.ID)
	c.finish(key, span, err)
	return feed.Post{}, err
}

// AddComment inserts a provisional comment on postID and confirms it. The
// post's comment count changes only when the server confirms.
func (c *Coordinator) AddComment(ctx context.Context, postID, text string) (feed.Comment, error) {
	text, err := validation.NormalizeText(text)
	if err != nil {
		return feed.Comment{}, c.reject(ActionAddComment, err)
	}
	me, err := c.signedIn()
	if err != nil {
		return feed.Comment{}, c.reject(ActionAddComment, err)
	}
	if feed.IsProvisional(postID) {
		return feed.Comment{}, c.reject(ActionAddComment, ErrPostPending)
	}

	key := Key{Kind: kindPost, EntityID: postID, Action: ActionAddComment}
	ctx, span, err := c.begin(ctx, key)
	if err != nil {
		return feed.Comment{}, c.reject(ActionAddComment, err)
	}

	if err := c.ensurePost(ctx, postID); err != nil {
		c.finish(key, span, err)
		return feed.Comment{}, err
	}

	provisional := feed.Comment{
		ID:             feed.NewProvisionalID(),
		PostID:         postID,
		AuthorID:       me.UserID,
		AuthorName:     me.Name,
		AuthorVerified: me.Verified,
		Text:           text,
		CreatedAt:      c.now(),
	}
	if err := c.store.InsertProvisionalComment(postID, provisional); err != nil {
		c.finish(key, span, err)
		return feed.Comment{}, err
	}

	view, err := c.api.AddComment(ctx, postID, text)
	if err == nil {
		comment := feed.CommentFromView(*view)
		if err = c.store.AppendConfirmedComment(postID, comment); err == nil {
			c.finish(key, span, nil)
			return comment, nil
		}
	}
	c.store.RemoveProvisionalComment(postID, provisional.ID)
	c.finish(key, span, err)
	return feed.Comment{}, err
}

// ToggleLike flips the viewer's like locally, then overwrites the post with
// the server's answer. On failure the local flip is undone.
func (c *Coordinator) ToggleLike(ctx context.Context, postID string) (feed.Post, error) {
	me, err := c.signedIn()
	if err != nil {
		return feed.Post{}, c.reject(ActionToggleLike, err)
	}
	if feed.IsProvisional(postID) {
		return feed.Post{}, c.reject(ActionToggleLike, ErrPostPending)
	}

	key := Key{Kind: kindPost, EntityID: postID, Action: ActionToggleLike}
	ctx, span, err := c.begin(ctx, key)
	if err != nil {
		return feed.Post{}, c.reject(ActionToggleLike, err)
	}

	if err := c.ensurePost(ctx, postID); err != nil {
		c.finish(key, span, err)
		return feed.Post{}, err
	}
	liked, err := c.store.ToggleLikeLocally(postID, me.UserID)
	if err != nil {
		c.finish(key, span, err)
		return feed.Post{}, err
	}

	view, err := c.api.ToggleLike(ctx, postID)
	if err == nil {
		post := feed.PostFromView(*view)
		if err = c.store.ApplyLikeResult(post); err == nil {
			c.finish(key, span, nil)
			return post, nil
		}
	}
	if revertErr := c.store.SetLiked(postID, me.UserID, !liked); revertErr != nil {
		c.logger.Debug("like revert skipped", slog.String("post_id", postID), slog.String("error", revertErr.Error()))
	}
	c.finish(key, span, err)
	return feed.Post{}, err
}

// RefreshPosts replaces the confirmed feed with the server's list.
func (c *Coordinator) RefreshPosts(ctx context.Context) error {
	key := Key{Kind: kindPost, Action: ActionRefreshPosts}
	ctx, span, err := c.begin(ctx, key)
	if err != nil {
		return c.reject(ActionRefreshPosts, err)
	}
	views, err := c.api.ListPosts(ctx)
	if err == nil {
		c.store.UpsertConfirmedPosts(feed.PostsFromViews(views))
	}
	c.finish(key, span, err)
	return err
}

// LoadComments fetches the full comment list of postID, and the post itself
// when it is not cached. Provisional posts have no server comments and are
// skipped.
func (c *Coordinator) LoadComments(ctx context.Context, postID string) error {
	if feed.IsProvisional(postID) {
		return nil
	}
	key := Key{Kind: kindPost, EntityID: postID, Action: ActionLoadComments}
	ctx, span, err := c.begin(ctx, key)
	if err != nil {
		return c.reject(ActionLoadComments, err)
	}
	err = c.ensurePost(ctx, postID)
	if err == nil {
		var views []models.CommentView
		if views, err = c.api.ListComments(ctx, postID); err == nil {
			c.store.ReplaceComments(postID, feed.CommentsFromViews(views))
		}
	}
	c.finish(key, span, err)
	return err
}

func failureMessage(action Action, err error) string {
	var what string
	switch action {
	case ActionCreatePost:
		what = "Could not publish your post"
	case ActionAddComment:
		what = "Could not add your comment"
	case ActionToggleLike:
		what = "Could not update your like"
	case ActionRefreshPosts:
		what = "Could not load the feed"
	case ActionLoadComments:
		what = "Could not load comments"
	default:
		what = "Action failed"
	}
	return fmt.Sprintf("%s: %v", what, err)
}
