package realtime

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studentvoice/internal/feed"
	"studentvoice/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event(t *testing.T, typ string, payload any) []byte {
	t.Helper()
	raw, err := models.NewRealtimeEvent(typ, payload)
	require.NoError(t, err)
	return raw
}

func TestFeedURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want string
		wantErr  bool
	}{
		{"http://localhost:8375", "ws://localhost:8375/api/ws", false},
		{"https://api.example.edu/", "wss://api.example.edu/api/ws", false},
		{"ftp://nope", "", true},
	}
	for _, tt := range tests {
		got, err := FeedURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestHandle_AppliesEvents(t *testing.T) {
	t.Parallel()
	store := feed.NewStore()
	resynced := false
	sub := NewSubscriber("http://unused", func() string { return "" }, store,
		WithLogger(quietLogger()),
		WithResync(func() { resynced = true }))

	post := models.PostView{ID: "5", Text: "hello", CreatedAt: time.Now(), LikedBy: []string{}}
	require.NoError(t, sub.Handle(event(t, models.EventPostCreated, post)))
	got, ok := store.Post("5")
	require.True(t, ok)
	assert.Equal(t, "hello", got.Text)

	post.LikedBy = []string{"3"}
	require.NoError(t, sub.Handle(event(t, models.EventPostReactionUpdated, post)))
	got, _ = store.Post("5")
	assert.Equal(t, []string{"3"}, got.LikedBy)

	comment := models.CommentView{ID: "9", PostID: "5", Text: "hi"}
	require.NoError(t, sub.Handle(event(t, models.EventCommentCreated, comment)))
	require.NoError(t, sub.Handle(event(t, models.EventCommentCreated, comment)))
	got, _ = store.Post("5")
	assert.Equal(t, 1, got.CommentCount)

	require.NoError(t, sub.Handle(event(t, models.EventMessagesDropped, map[string]int{"dropped": 3})))
	assert.True(t, resynced)
}

func TestHandle_RejectsBadInput(t *testing.T) {
	t.Parallel()
	sub := NewSubscriber("http://unused", func() string { return "" }, feed.NewStore())

	assert.Error(t, sub.Handle([]byte("not json")))
	assert.ErrorIs(t, sub.Handle(event(t, "chat_message", map[string]string{})), errUnknownEvent)
	assert.Error(t, sub.Handle(event(t, models.EventPostCreated, models.PostView{ID: "temp-1"})))
}

func TestRun_StreamsEventsIntoStore(t *testing.T) {
	t.Parallel()
	upgrader := websocket.Upgrader{}
	authHeader := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ws", r.URL.Path)
		authHeader <- r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		msg, _ := models.NewRealtimeEvent(models.EventPostCreated, models.PostView{ID: "1", Text: "live"})
		_ = conn.WriteMessage(websocket.TextMessage, msg)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)

	store := feed.NewStore()
	applied := make(chan models.RealtimeEvent, 1)
	sub := NewSubscriber(srv.URL, func() string { return "jwt" }, store,
		WithLogger(quietLogger()),
		WithEventHook(func(ev models.RealtimeEvent) { applied <- ev }))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sub.Run(ctx))

	assert.Equal(t, "Bearer jwt", <-authHeader)
	assert.Equal(t, models.EventPostCreated, (<-applied).Type)
	got, ok := store.Post("1")
	require.True(t, ok)
	assert.Equal(t, "live", got.Text)
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	sub := NewSubscriber(srv.URL, func() string { return "" }, feed.NewStore(), WithLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_DialFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	sub := NewSubscriber(srv.URL, func() string { return "" }, feed.NewStore())
	err := sub.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
