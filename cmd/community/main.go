// Command community is a terminal client for the StudentVoice discussion feed.
//
// Usage:
//
//	community <command> [flags] [args]
//
// Run "community help" for the command list.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"studentvoice/internal/config"
	"studentvoice/internal/feed"
	"studentvoice/internal/middleware"
	"studentvoice/internal/mutation"
	"studentvoice/internal/remote"
	"studentvoice/internal/session"
)

var errUsage = errors.New("usage")

type app struct {
	cfg      *config.ClientConfig
	sessions session.Store
	client   *remote.Client
	store    *feed.Store
	coord    *mutation.Coordinator
	logger   *slog.Logger
	out      io.Writer
	errOut   io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		_, _ = fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}

	a := newApp(cfg, session.NewFileStore(cfg.SessionFile), out, errOut)

	cmd, ok := commands[args[0]]
	if !ok {
		if args[0] != "help" && args[0] != "-h" && args[0] != "--help" {
			_, _ = fmt.Fprintf(errOut, "unknown command %q\n\n", args[0])
		}
		printUsage(errOut)
		return 2
	}

	if err := cmd.run(ctx, a, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintf(errOut, "usage: community %s %s\n", args[0], cmd.usage)
			return 2
		}
		_, _ = fmt.Fprintf(errOut, "error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(cfg *config.ClientConfig, sessions session.Store, out, errOut io.Writer) *app {
	logger := middleware.NewLogger(cfg.Env, errOut)
	client := remote.New(cfg.APIBaseURL, sessions, remote.WithTimeout(cfg.RequestTimeout()))
	store := feed.NewStore()

	a := &app{
		cfg:      cfg,
		sessions: sessions,
		client:   client,
		store:    store,
		logger:   logger,
		out:      out,
		errOut:   errOut,
	}
	a.coord = mutation.New(client, store, a.identity(),
		mutation.WithLogger(logger),
		mutation.WithNoticeSink(func(n mutation.Notice) {
			_, _ = fmt.Fprintf(errOut, "! %s\n", n.Message)
		}))
	return a
}

// identity reads the signed-in user from the session file.
func (a *app) identity() mutation.Identity {
	sess, err := a.sessions.Load()
	if err != nil || sess.User == nil {
		return mutation.Identity{}
	}
	return mutation.Identity{UserID: sess.User.ID, Name: sess.User.Name, Verified: sess.User.Verified}
}

func (a *app) refreshIdentity() {
	a.coord.SetIdentity(a.identity())
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: community <command> [flags] [args]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "commands:")
	for _, name := range commandOrder {
		cmd := commands[name]
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", name, cmd.summary)
	}
}
