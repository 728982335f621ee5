package mutation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"studentvoice/internal/feed"
	"studentvoice/internal/models"
	"studentvoice/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errDown     = errors.New("service unavailable")
	errNotFound = errors.New("post not found")
)

// fakeAPI is an in-memory server. gate, when set, blocks each call until a
// value is received, so tests can observe pending state.
type fakeAPI struct {
	mu       sync.Mutex
	fail     bool
	gate     chan struct{}
	entered  chan struct{}
	posts    map[string]*models.PostView
	comments map[string][]models.CommentView
	nextID   int
	calls    map[string]int
	// pageSize caps ListPosts like the server's default page; zero means no cap.
	pageSize int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		posts:    make(map[string]*models.PostView),
		comments: make(map[string][]models.CommentView),
		nextID:   100,
		calls:    make(map[string]int),
	}
}

func (f *fakeAPI) enter(name string) error {
	f.mu.Lock()
	f.calls[name]++
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errDown
	}
	return nil
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) seed(id string, created time.Time, likedBy []string, comments int) {
	f.posts[id] = &models.PostView{ID: id, Text: "post " + id, CreatedAt: created, LikedBy: likedBy, CommentCount: comments}
	for i := range comments {
		f.comments[id] = append(f.comments[id], models.CommentView{ID: id + "-c" + strconv.Itoa(i), PostID: id})
	}
}

func (f *fakeAPI) ListPosts(context.Context) ([]models.PostView, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PostView, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b models.PostView) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if f.pageSize > 0 && len(out) > f.pageSize {
		out = out[:f.pageSize]
	}
	return out, nil
}

func (f *fakeAPI) GetPost(_ context.Context, postID string) (*models.PostView, error) {
	if err := f.enter("get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[postID]
	if !ok {
		return nil, errNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeAPI) CreatePost(_ context.Context, text string) (*models.PostView, error) {
	if err := f.enter("create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := strconv.Itoa(f.nextID)
	p := &models.PostView{ID: id, Author: models.AuthorView{ID: "u1", Name: "Asha"}, Text: text, CreatedAt: time.Now(), LikedBy: []string{}}
	f.posts[id] = p
	return p, nil
}

func (f *fakeAPI) ToggleLike(_ context.Context, postID string) (*models.PostView, error) {
	if err := f.enter("like"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.posts[postID]
	if i := slices.Index(p.LikedBy, "u1"); i >= 0 {
		p.LikedBy = slices.Delete(slices.Clone(p.LikedBy), i, i+1)
	} else {
		p.LikedBy = append(slices.Clone(p.LikedBy), "u1")
	}
	out := *p
	return &out, nil
}

func (f *fakeAPI) ListComments(_ context.Context, postID string) ([]models.CommentView, error) {
	if err := f.enter("comments"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.comments[postID]), nil
}

func (f *fakeAPI) AddComment(_ context.Context, postID, text string) (*models.CommentView, error) {
	if err := f.enter("comment"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := models.CommentView{ID: strconv.Itoa(f.nextID), PostID: postID, Text: text, CreatedAt: time.Now()}
	f.comments[postID] = append(f.comments[postID], c)
	f.posts[postID].CommentCount++
	return &c, nil
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *noticeLog) add(x Notice) {
	n.mu.Lock()
	n.notices = append(n.notices, x)
	n.mu.Unlock()
}

func (n *noticeLog) all() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.notices)
}

var me = Identity{UserID: "u1", Name: "Asha", Verified: true}

func newCoordinator(t *testing.T, api *fakeAPI) (*Coordinator, *feed.Store, *noticeLog) {
	t.Helper()
	store := feed.NewStore()
	notices := &noticeLog{}
	c := New(api, store, me,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNoticeSink(notices.add))
	return c, store, notices
}

func postIDs(s *feed.Store) []string {
	var out []string
	for _, p := range s.Posts() {
		out = append(out, p.ID)
	}
	return out
}

func TestCreatePost_FailuresRestorePriorFeed(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now().Add(-time.Hour), nil, 0)
	c, store, notices := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))
	before := store.Posts()

	api.fail = true
	for range 3 {
		_, err := c.CreatePost(context.Background(), "hello")
		require.ErrorIs(t, err, errDown)
	}

	assert.Equal(t, before, store.Posts())
	require.Len(t, notices.all(), 3)
	assert.Equal(t, ActionCreatePost, notices.all()[0].Action)
	assert.Contains(t, notices.all()[0].Message, "Could not publish your post")
}

func TestCreatePost_ConfirmedOnce(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c, store, _ := newCoordinator(t, api)

	post, err := c.CreatePost(context.Background(), "  first post  ")
	require.NoError(t, err)
	assert.Equal(t, "first post", post.Text)

	// the same post also arrives via a later refresh
	require.NoError(t, c.RefreshPosts(context.Background()))

	got := postIDs(store)
	assert.Equal(t, []string{post.ID}, got)
	for _, p := range store.Posts() {
		assert.False(t, p.Provisional())
	}
}

func TestCreatePost_ProvisionalVisibleWhilePending(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.gate = make(chan struct{})
	api.entered = make(chan struct{}, 1)
	c, store, _ := newCoordinator(t, api)

	done := make(chan error, 1)
	go func() {
		_, err := c.CreatePost(context.Background(), "draft")
		done <- err
	}()
	<-api.entered

	posts := store.Posts()
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Provisional())
	assert.Equal(t, "Asha", posts[0].AuthorName)
	assert.True(t, posts[0].AuthorVerified)
	assert.Equal(t, Pending, c.State(Key{Kind: "post", EntityID: posts[0].ID, Action: ActionCreatePost}))

	close(api.gate)
	require.NoError(t, <-done)
	assert.Equal(t, Idle, c.State(Key{Kind: "post", EntityID: posts[0].ID, Action: ActionCreatePost}))
	assert.False(t, store.Posts()[0].Provisional())
}

func TestCreatePost_ReleasesSlots(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c, _, _ := newCoordinator(t, api)

	for range 5 {
		_, err := c.CreatePost(context.Background(), "hello")
		require.NoError(t, err)
	}
	api.fail = true
	_, err := c.CreatePost(context.Background(), "hello")
	require.ErrorIs(t, err, errDown)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Empty(t, c.states)
}

func TestCreatePost_ValidationSkipsNetwork(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c, store, notices := newCoordinator(t, api)

	_, err := c.CreatePost(context.Background(), " \n\t")
	assert.ErrorIs(t, err, validation.ErrEmptyText)
	assert.Zero(t, api.count("create"))
	assert.Empty(t, store.Posts())
	assert.Empty(t, notices.all())
}

func TestMutations_RequireIdentity(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c, _, _ := newCoordinator(t, api)
	c.SetIdentity(Identity{})

	_, err := c.CreatePost(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrSignedOut)
	_, err = c.ToggleLike(context.Background(), "1")
	assert.ErrorIs(t, err, ErrSignedOut)
	_, err = c.AddComment(context.Background(), "1", "hi")
	assert.ErrorIs(t, err, ErrSignedOut)
	assert.Zero(t, api.count("create")+api.count("like")+api.count("comment"))
}

func TestToggleLike_TwiceRestoresMembership(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now(), []string{"u2"}, 0)
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	post, err := c.ToggleLike(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, post.LikedByUser("u1"))

	post, err = c.ToggleLike(context.Background(), "1")
	require.NoError(t, err)
	assert.False(t, post.LikedByUser("u1"))

	got, _ := store.Post("1")
	assert.Equal(t, []string{"u2"}, got.LikedBy)
}

func TestToggleLike_FailureReverts(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now(), []string{"u2"}, 0)
	c, store, notices := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	api.fail = true
	_, err := c.ToggleLike(context.Background(), "1")
	require.ErrorIs(t, err, errDown)

	got, _ := store.Post("1")
	assert.Equal(t, []string{"u2"}, got.LikedBy)
	assert.Equal(t, Failed, c.State(Key{Kind: "post", EntityID: "1", Action: ActionToggleLike}))
	require.Len(t, notices.all(), 1)
	assert.Equal(t, "1", notices.all()[0].EntityID)
}

func TestToggleLike_ServerResponseWins(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now(), nil, 0)
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	// another viewer liked the post since our last fetch
	api.posts["1"].LikedBy = []string{"u7"}

	_, err := c.ToggleLike(context.Background(), "1")
	require.NoError(t, err)
	got, _ := store.Post("1")
	assert.ElementsMatch(t, []string{"u7", "u1"}, got.LikedBy)
}

func TestToggleLike_ConcurrentDuplicateRejected(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now(), nil, 0)
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	api.gate = make(chan struct{})
	api.entered = make(chan struct{}, 1)
	first := make(chan error, 1)
	go func() {
		_, err := c.ToggleLike(context.Background(), "1")
		first <- err
	}()
	<-api.entered

	_, err := c.ToggleLike(context.Background(), "1")
	assert.ErrorIs(t, err, ErrInFlight)

	optimistic, _ := store.Post("1")
	assert.Equal(t, []string{"u1"}, optimistic.LikedBy)

	close(api.gate)
	require.NoError(t, <-first)
	assert.Equal(t, 1, api.count("like"))

	got, _ := store.Post("1")
	assert.Equal(t, []string{"u1"}, got.LikedBy)
}

func TestToggleLike_DifferentPostsRunConcurrently(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now(), nil, 0)
	api.seed("2", time.Now(), nil, 0)
	c, _, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	api.gate = make(chan struct{})
	api.entered = make(chan struct{}, 2)
	errs := make(chan error, 2)
	for _, id := range []string{"1", "2"} {
		go func() {
			_, err := c.ToggleLike(context.Background(), id)
			errs <- err
		}()
	}
	<-api.entered
	<-api.entered
	close(api.gate)
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)
}

func TestToggleLike_PostBeyondFirstPage(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.pageSize = 50
	for i := range 51 {
		api.seed(strconv.Itoa(i+1), time.Now().Add(time.Duration(i)*time.Minute), nil, 0)
	}
	c, store, notices := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))
	require.Len(t, store.Posts(), 50)
	_, cached := store.Post("1")
	require.False(t, cached)

	post, err := c.ToggleLike(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, post.LikedByUser("u1"))
	assert.Equal(t, 1, api.count("get"))
	assert.Equal(t, 1, api.count("like"))
	got, ok := store.Post("1")
	require.True(t, ok)
	assert.Equal(t, []string{"u1"}, got.LikedBy)

	// cached now, so no second fetch
	_, err = c.ToggleLike(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("get"))
	assert.Empty(t, notices.all())
}

func TestToggleLike_UnknownPost(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	c, store, notices := newCoordinator(t, api)

	_, err := c.ToggleLike(context.Background(), "404")
	require.ErrorIs(t, err, errNotFound)
	assert.Zero(t, api.count("like"))
	assert.Empty(t, store.Posts())
	assert.Equal(t, Failed, c.State(Key{Kind: "post", EntityID: "404", Action: ActionToggleLike}))
	assert.Len(t, notices.all(), 1)
}

func TestComments_PostBeyondFirstPage(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.pageSize = 50
	for i := range 51 {
		api.seed(strconv.Itoa(i+1), time.Now().Add(time.Duration(i)*time.Minute), nil, 1)
	}
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	require.NoError(t, c.LoadComments(context.Background(), "1"))
	list, loaded := store.Comments("1")
	assert.True(t, loaded)
	assert.Len(t, list, 1)

	// a later refresh drops post 1 from the cache again
	require.NoError(t, c.RefreshPosts(context.Background()))
	_, cached := store.Post("1")
	require.False(t, cached)

	_, err := c.AddComment(context.Background(), "1", "late reply")
	require.NoError(t, err)
	got, ok := store.Post("1")
	require.True(t, ok)
	assert.Equal(t, 2, got.CommentCount)
}

func TestToggleLike_ProvisionalPost(t *testing.T) {
	t.Parallel()
	c, _, _ := newCoordinator(t, newFakeAPI())
	_, err := c.ToggleLike(context.Background(), feed.NewProvisionalID())
	assert.ErrorIs(t, err, ErrPostPending)
}

func TestAddComment_FailureKeepsCount(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("p", time.Now(), nil, 3)
	c, store, notices := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	api.fail = true
	_, err := c.AddComment(context.Background(), "p", "nice")
	require.ErrorIs(t, err, errDown)

	got, _ := store.Post("p")
	assert.Equal(t, 3, got.CommentCount)
	list, _ := store.Comments("p")
	assert.Empty(t, list)
	require.Len(t, notices.all(), 1)
	assert.Equal(t, ActionAddComment, notices.all()[0].Action)
}

func TestAddComment_ConfirmIncrementsOnce(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("p", time.Now(), nil, 3)
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))
	require.NoError(t, c.LoadComments(context.Background(), "p"))

	comment, err := c.AddComment(context.Background(), "p", "  nice  ")
	require.NoError(t, err)
	assert.Equal(t, "nice", comment.Text)

	got, _ := store.Post("p")
	assert.Equal(t, 4, got.CommentCount)
	list, loaded := store.Comments("p")
	assert.True(t, loaded)
	require.Len(t, list, 4)
	assert.Equal(t, comment.ID, list[3].ID)
	assert.False(t, list[3].Provisional())
}

func TestAddComment_ProvisionalShownWhilePending(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("p", time.Now(), nil, 0)
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	api.gate = make(chan struct{})
	api.entered = make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		_, err := c.AddComment(context.Background(), "p", "wait for it")
		done <- err
	}()
	<-api.entered

	list, _ := store.Comments("p")
	require.Len(t, list, 1)
	assert.True(t, list[0].Provisional())
	got, _ := store.Post("p")
	assert.Equal(t, 0, got.CommentCount)

	_, err := c.AddComment(context.Background(), "p", "again")
	assert.ErrorIs(t, err, ErrInFlight)

	close(api.gate)
	require.NoError(t, <-done)
	got, _ = store.Post("p")
	assert.Equal(t, 1, got.CommentCount)
}

func TestLoadComments(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("p", time.Now(), nil, 2)
	c, store, _ := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	require.NoError(t, c.LoadComments(context.Background(), "p"))
	list, loaded := store.Comments("p")
	assert.True(t, loaded)
	assert.Len(t, list, 2)

	require.NoError(t, c.LoadComments(context.Background(), feed.NewProvisionalID()))
	assert.Equal(t, 1, api.count("comments"))

	api.fail = true
	assert.ErrorIs(t, c.LoadComments(context.Background(), "p"), errDown)
	list, loaded = store.Comments("p")
	assert.True(t, loaded)
	assert.Len(t, list, 2)
}

func TestRefreshPosts_FailureKeepsFeed(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.seed("1", time.Now(), nil, 0)
	c, store, notices := newCoordinator(t, api)
	require.NoError(t, c.RefreshPosts(context.Background()))

	api.fail = true
	require.ErrorIs(t, c.RefreshPosts(context.Background()), errDown)
	assert.Equal(t, []string{"1"}, postIDs(store))
	require.Len(t, notices.all(), 1)
	assert.Contains(t, notices.all()[0].Message, "Could not load the feed")
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "confirmed", Confirmed.String())
	assert.Equal(t, "failed", Failed.String())
}
