// Package realtime keeps a feed store current from the server's WebSocket
// event stream.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studentvoice/internal/feed"
	"studentvoice/internal/models"

	"github.com/gorilla/websocket"
)

const (
	feedPath         = "/api/ws"
	handshakeTimeout = 10 * time.Second
	pongWait         = 70 * time.Second
)

// Subscriber applies server events to a store through its public operations.
type Subscriber struct {
	baseURL string
	token   func() string
	store   *feed.Store
	logger  *slog.Logger
	dialer  *websocket.Dialer
	resync  func()
	onEvent func(models.RealtimeEvent)
}

type Option func(*Subscriber)

func WithLogger(l *slog.Logger) Option {
	return func(s *Subscriber) { s.logger = l }
}

// WithResync is called when the server reports dropped messages; the caller
// should refetch the feed.
func WithResync(fn func()) Option {
	return func(s *Subscriber) { s.resync = fn }
}

// WithEventHook observes every decoded event after it has been applied.
func WithEventHook(fn func(models.RealtimeEvent)) Option {
	return func(s *Subscriber) { s.onEvent = fn }
}

func NewSubscriber(baseURL string, token func() string, store *feed.Store, opts ...Option) *Subscriber {
	s := &Subscriber{
		baseURL: baseURL,
		token:   token,
		store:   store,
		logger:  slog.Default(),
		dialer:  &websocket.Dialer{HandshakeTimeout: handshakeTimeout, Proxy: http.ProxyFromEnvironment},
		resync:  func() {},
		onEvent: func(models.RealtimeEvent) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FeedURL turns an http(s) API root into the ws(s) feed endpoint.
func FeedURL(baseURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Path += feedPath
	return u.String(), nil
}

// Run connects and applies events until ctx is done or the connection drops.
// It returns nil on context cancellation.
func (s *Subscriber) Run(ctx context.Context) error {
	target, err := FeedURL(s.baseURL)
	if err != nil {
		return err
	}
	header := http.Header{}
	if token := s.token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := s.dialer.DialContext(ctx, target, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial %s: status %d: %w", target, resp.StatusCode, err)
		}
		return fmt.Errorf("dial %s: %w", target, err)
	}
	defer func() { _ = conn.Close() }()
	s.logger.Info("realtime feed connected", slog.String("url", target))

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	})
	defer stop()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read feed event: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if err := s.Handle(message); err != nil {
			s.logger.Warn("realtime event skipped", slog.String("error", err.Error()))
		}
	}
}

var errUnknownEvent = errors.New("unknown event type")

// Handle decodes one event envelope and applies it to the store.
func (s *Subscriber) Handle(message []byte) error {
	var ev models.RealtimeEvent
	if err := json.Unmarshal(message, &ev); err != nil {
		return fmt.Errorf("decode event: %w", err)
	}
	if err := s.apply(ev); err != nil {
		return fmt.Errorf("%s: %w", ev.Type, err)
	}
	s.onEvent(ev)
	return nil
}

func (s *Subscriber) apply(ev models.RealtimeEvent) error {
	switch ev.Type {
	case models.EventPostCreated, models.EventPostReactionUpdated:
		var view models.PostView
		if err := json.Unmarshal(ev.Payload, &view); err != nil {
			return err
		}
		post := feed.PostFromView(view)
		if ev.Type == models.EventPostReactionUpdated {
			return s.store.ApplyLikeResult(post)
		}
		return s.store.ApplyRemotePost(post)
	case models.EventCommentCreated:
		var view models.CommentView
		if err := json.Unmarshal(ev.Payload, &view); err != nil {
			return err
		}
		return s.store.ApplyRemoteComment(view.PostID, feed.CommentFromView(view))
	case models.EventMessagesDropped:
		s.resync()
		return nil
	default:
		return errUnknownEvent
	}
}
