package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"studentvoice/internal/present"
	"studentvoice/internal/realtime"
	"studentvoice/internal/remote"
)

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commandOrder = []string{
	"register", "login", "logout", "me",
	"feed", "post", "like", "comments", "comment", "watch",
	"ask", "history", "schedule", "schedules", "unschedule",
	"surveys", "survey", "answer", "results",
	"points", "verify",
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"register":   {"-name NAME -email EMAIL -password PASSWORD [-role student|viewer]", "create an account and sign in", cmdRegister},
		"login":      {"-email EMAIL -password PASSWORD", "sign in", cmdLogin},
		"logout":     {"", "sign out and forget the saved session", cmdLogout},
		"me":         {"", "show the signed-in account", cmdMe},
		"feed":       {"[-comments]", "show the discussion feed", cmdFeed},
		"post":       {"TEXT...", "publish a post", cmdPost},
		"like":       {"POST_ID", "like or unlike a post", cmdLike},
		"comments":   {"POST_ID", "show a post with its comments", cmdComments},
		"comment":    {"POST_ID TEXT...", "comment on a post", cmdComment},
		"watch":      {"", "show the feed and follow live updates", cmdWatch},
		"ask":        {"QUESTION...", "ask the AI mentor", cmdAsk},
		"history":    {"", "show previous mentor answers", cmdHistory},
		"schedule":   {"TOPIC...", "ask the AI mentor for a day-by-day learning schedule", cmdSchedule},
		"schedules":  {"", "list your learning schedules", cmdSchedules},
		"unschedule": {"SCHEDULE_ID", "delete a learning schedule", cmdUnschedule},
		"surveys":    {"", "list college surveys", cmdSurveys},
		"survey":     {"COLLEGE...", "show a college survey with your answers", cmdSurvey},
		"answer":     {"QUESTION_ID OPTION", "answer a survey question (options start at 1)", cmdAnswer},
		"results":    {"COLLEGE...", "show survey results for a college", cmdResults},
		"points":     {"[USER_ID]", "show a points breakdown", cmdPoints},
		"verify":     {"-selfie FILE -id-card FILE", "verify your identity with a selfie and ID card", cmdVerify},
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	in := remote.RegisterInput{}
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Role, "role", "student", "student or viewer")
	fs.StringVar(&in.CollegeID, "college-id", "", "college id")
	fs.StringVar(&in.CollegeName, "college-name", "", "college name")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return errUsage
	}

	resp, err := a.client.Register(ctx, in)
	if err != nil {
		return err
	}
	name := in.Name
	if resp.User != nil {
		name = resp.User.Name
	}
	_, _ = fmt.Fprintf(a.out, "Welcome, %s! You are signed in.\n", name)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errUsage
	}

	resp, err := a.client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	name := *email
	if resp.User != nil {
		name = resp.User.Name
	}
	_, _ = fmt.Fprintf(a.out, "Signed in as %s.\n", name)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.client.Logout(ctx); err != nil {
		a.logger.Warn("server logout failed, local session cleared anyway", "error", err)
	}
	_, _ = fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func cmdMe(ctx context.Context, a *app, _ []string) error {
	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	status := "not verified"
	if user.IsVerified {
		status = "verified"
	}
	_, _ = fmt.Fprintf(a.out, "%s <%s>\nrole: %s, %s\nid: %d\n", user.Name, user.Email, user.Role, status, user.ID)
	if user.CollegeName != "" {
		_, _ = fmt.Fprintf(a.out, "college: %s\n", user.CollegeName)
	}
	return nil
}

func (a *app) renderer() *present.Renderer {
	return present.NewRenderer(a.out, a.coord.Identity().UserID)
}

func cmdFeed(ctx context.Context, a *app, args []string) error {
	fs := newFlags("feed")
	withComments := fs.Bool("comments", false, "also load comments for every post")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if err := a.coord.RefreshPosts(ctx); err != nil {
		return err
	}
	if *withComments {
		for _, p := range a.store.Posts() {
			if err := a.coord.LoadComments(ctx, p.ID); err != nil {
				return err
			}
		}
	}
	return a.renderer().Feed(a.store)
}

func cmdPost(ctx context.Context, a *app, args []string) error {
	composer := present.NewComposer(func(ctx context.Context, text string) error {
		post, err := a.coord.CreatePost(ctx, text)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(a.out, "Posted:")
		return a.renderer().Post(post, nil, false)
	})
	composer.SetText(strings.Join(args, " "))
	return composer.Submit(ctx)
}

func cmdLike(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := a.coord.RefreshPosts(ctx); err != nil {
		return err
	}
	post, err := a.coord.ToggleLike(ctx, args[0])
	if err != nil {
		return err
	}
	verb := "Unliked"
	if post.LikedByUser(a.coord.Identity().UserID) {
		verb = "Liked"
	}
	_, _ = fmt.Fprintf(a.out, "%s post #%s (%d likes).\n", verb, post.ID, len(post.LikedBy))
	return nil
}

func cmdComments(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	postID := args[0]
	if err := a.coord.RefreshPosts(ctx); err != nil {
		return err
	}
	if err := a.coord.LoadComments(ctx, postID); err != nil {
		return err
	}
	post, ok := a.store.Post(postID)
	if !ok {
		return fmt.Errorf("post #%s not found", postID)
	}
	comments, loaded := a.store.Comments(postID)
	return a.renderer().Post(post, comments, loaded)
}

func cmdComment(ctx context.Context, a *app, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	postID := args[0]
	if err := a.coord.RefreshPosts(ctx); err != nil {
		return err
	}
	composer := present.NewComposer(func(ctx context.Context, text string) error {
		_, err := a.coord.AddComment(ctx, postID, text)
		return err
	})
	composer.SetText(strings.Join(args[1:], " "))
	if err := composer.Submit(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Comment added to post #%s.\n", postID)
	return nil
}

func cmdWatch(ctx context.Context, a *app, _ []string) error {
	if err := a.coord.RefreshPosts(ctx); err != nil {
		return err
	}

	render := func() {
		_, _ = fmt.Fprintf(a.out, "\n=== feed at %s ===\n", time.Now().Format(time.Kitchen))
		if err := a.renderer().Feed(a.store); err != nil {
			a.logger.Warn("render failed", "error", err)
		}
	}
	render()

	changed := make(chan struct{}, 1)
	unsubscribe := a.store.Subscribe(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	sub := realtime.NewSubscriber(a.cfg.APIBaseURL, a.client.Token, a.store,
		realtime.WithLogger(a.logger),
		realtime.WithResync(func() {
			go func() {
				if err := a.coord.RefreshPosts(ctx); err != nil {
					a.logger.Warn("resync failed", "error", err)
				}
			}()
		}))

	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx) }()

	for {
		select {
		case <-changed:
			render()
		case err := <-done:
			return err
		}
	}
}

func cmdAsk(ctx context.Context, a *app, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return errUsage
	}
	answer, err := a.client.AskMentor(ctx, question)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.out, answer.Answer)
	if len(answer.YoutubeLinks) > 0 {
		_, _ = fmt.Fprintln(a.out, "\nWatch:")
		for _, link := range answer.YoutubeLinks {
			_, _ = fmt.Fprintf(a.out, "  %s\n", link)
		}
	}
	return nil
}

func cmdHistory(ctx context.Context, a *app, _ []string) error {
	answers, err := a.client.MentorHistory(ctx)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		_, _ = fmt.Fprintln(a.out, "No questions asked yet.")
		return nil
	}
	for _, ans := range answers {
		_, _ = fmt.Fprintf(a.out, "[%s] Q: %s\nA: %s\n\n",
			present.RelativeTime(ans.AskedAt, time.Now()), ans.Question, ans.Answer)
	}
	return nil
}

func cmdPoints(ctx context.Context, a *app, args []string) error {
	userID := a.coord.Identity().UserID
	if len(args) > 0 {
		userID = args[0]
	}
	if userID == "" {
		return errors.New("sign in or pass a user id")
	}
	points, err := a.client.Points(ctx, userID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "surveys:     %d\ncommunity:   %d\nai usage:    %d\ndaily login: %d\ntotal:       %d\n",
		points.Surveys, points.Community, points.AIUsage, points.DailyLogin, points.Total)
	return nil
}

func cmdVerify(ctx context.Context, a *app, args []string) error {
	fs := newFlags("verify")
	selfiePath := fs.String("selfie", "", "selfie image file")
	cardPath := fs.String("id-card", "", "ID card image file")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *selfiePath == "" || *cardPath == "" {
		return errUsage
	}

	selfie, err := os.ReadFile(*selfiePath)
	if err != nil {
		return fmt.Errorf("read selfie: %w", err)
	}
	card, err := os.ReadFile(*cardPath)
	if err != nil {
		return fmt.Errorf("read id card: %w", err)
	}

	result, err := a.client.VerifyIdentity(ctx, selfie, card)
	if err != nil {
		return err
	}
	if result.Verified {
		_, _ = fmt.Fprintf(a.out, "Verified (confidence %.1f).\n", result.Confidence)
		if sess, err := a.sessions.Load(); err == nil && sess.User != nil {
			sess.User.Verified = true
			if err := a.sessions.Save(sess); err != nil {
				a.logger.Warn("could not update saved session", "error", err)
			}
			a.refreshIdentity()
		}
		return nil
	}
	_, _ = fmt.Fprintf(a.out, "Not verified (confidence %.1f). Try clearer photos.\n", result.Confidence)
	return nil
}
