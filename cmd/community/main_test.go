package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"studentvoice/internal/models"
	"studentvoice/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	mu        sync.Mutex
	posts     []models.PostView
	choice    *int
	schedules []*models.LearningSchedule
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(models.AuthResponse{
			Token: "jwt-1",
			User:  &models.User{ID: 4, Name: "Asha", Email: "asha@uni.edu", Role: "student"},
		})
	})
	mux.HandleFunc("GET /api/post/allpostlist", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.posts)
	})
	mux.HandleFunc("POST /api/post/postcreate", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		var body struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		p := models.PostView{
			ID:        "1",
			Author:    models.AuthorView{ID: "4", Name: "Asha"},
			Text:      body.Text,
			CreatedAt: time.Now(),
			LikedBy:   []string{},
		}
		f.posts = append(f.posts, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("GET /api/post/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.posts {
			if p.ID == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Post not found","code":"NOT_FOUND"}`))
	})
	mux.HandleFunc("POST /api/post/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.posts {
			if f.posts[i].ID == r.PathValue("id") {
				f.posts[i].LikedBy = append(f.posts[i].LikedBy, "4")
				_ = json.NewEncoder(w).Encode(f.posts[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Post not found","code":"NOT_FOUND"}`))
	})
	f.surveyRoutes(mux)
	f.scheduleRoutes(mux)
	return mux
}

func (f *fakeServer) surveyRoutes(mux *http.ServeMux) {
	const college = "St. Joseph's College"
	question := func() models.SurveyQuestion {
		return models.SurveyQuestion{ID: 3, College: college, Text: "Rate the library", Options: []string{"Good", "Bad"}, MyChoice: f.choice}
	}
	mux.HandleFunc("GET /api/surveys", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.SurveySummary{{College: college, Title: college + " Student Survey", Description: "d", Questions: 1}})
	})
	mux.HandleFunc("GET /api/questions", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.URL.Query().Get("college") != college {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_ = json.NewEncoder(w).Encode([]models.SurveyQuestion{question()})
	})
	mux.HandleFunc("POST /api/questions/{id}/answer", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Choice int `json:"choice"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.PathValue("id") != "3" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Question not found","code":"NOT_FOUND"}`))
			return
		}
		awarded := 0
		if f.choice == nil {
			awarded = models.AwardSurvey
		}
		f.choice = &body.Choice
		_ = json.NewEncoder(w).Encode(models.AnswerResult{QuestionID: 3, Choice: body.Choice, Awarded: awarded})
	})
	mux.HandleFunc("GET /api/questions/result/{college}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.PathValue("college") != college {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Survey not found","code":"NOT_FOUND"}`))
			return
		}
		counts := []int{0, 0}
		if f.choice != nil {
			counts[*f.choice]++
		}
		q := question()
		_ = json.NewEncoder(w).Encode(models.SurveyResults{
			College:   college,
			Responses: counts[0] + counts[1],
			Questions: []models.QuestionResult{{QuestionID: 3, Text: q.Text, Options: q.Options, Counts: counts, Total: counts[0] + counts[1]}},
		})
	})
}

func (f *fakeServer) scheduleRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/ai/schedule", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Topic string `json:"topic"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		days := 1
		s := &models.LearningSchedule{
			ID:        uint(len(f.schedules) + 1),
			Topic:     body.Topic,
			TotalDays: &days,
			Days:      []models.ScheduleDay{{Day: "Day 1", LearningGoal: "Basics", Resources: []string{"go.dev/tour"}}},
			Advice:    "Practice daily",
			CreatedAt: time.Now(),
		}
		f.schedules = append(f.schedules, s)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(s)
	})
	mux.HandleFunc("GET /api/ai/schedule", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.schedules)
	})
	mux.HandleFunc("DELETE /api/ai/schedule/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.schedules {
			if strconv.FormatUint(uint64(s.ID), 10) == r.PathValue("id") {
				f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Schedule not found","code":"NOT_FOUND"}`))
	})
}

func setup(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer((&fakeServer{}).handler(t))
	t.Cleanup(srv.Close)

	sessionFile := filepath.Join(t.TempDir(), "session.yml")
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("SESSION_FILE", sessionFile)
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("APP_ENV", "test")
	return sessionFile
}

func runCmd(args ...string) (int, string, string) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_LoginPostLike(t *testing.T) {
	sessionFile := setup(t)

	code, out, _ := runCmd("login", "-email", "asha@uni.edu", "-password", "secret123")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Signed in as Asha.")

	sess, err := session.NewFileStore(sessionFile).Load()
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", sess.Token)

	code, out, _ = runCmd("post", "hello", "campus")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Posted:")
	assert.Contains(t, out, "hello campus")

	code, out, _ = runCmd("like", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Liked post #1 (1 likes).")

	code, out, _ = runCmd("feed")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "liked by you")

	code, _, errOut := runCmd("like", "99")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Post not found (status 404)")
}

func TestRun_Errors(t *testing.T) {
	setup(t)

	code, _, errOut := runCmd()
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: community")

	code, _, errOut = runCmd("dance")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "dance"`)

	code, _, errOut = runCmd("login", "-email", "x@y.edu")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: community login")

	code, _, errOut = runCmd("post", "   ")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "text must not be empty")

	code, _, errOut = runCmd("post", "signed out")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "sign in")
}

func TestRun_Surveys(t *testing.T) {
	setup(t)
	code, _, _ := runCmd("login", "-email", "asha@uni.edu", "-password", "secret123")
	require.Equal(t, 0, code)

	code, out, _ := runCmd("surveys")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "St. Joseph's College Student Survey (1 questions)")

	code, out, _ = runCmd("answer", "3", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "+3 survey points")

	code, out, _ = runCmd("answer", "3", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Answer updated.")

	code, out, _ = runCmd("survey", "St.", "Joseph's", "College")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "#3 Rate the library")
	assert.Contains(t, out, "* 1. Good")
	assert.Contains(t, out, "  2. Bad")

	code, out, _ = runCmd("results", "St. Joseph's College")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "1 respondents")
	assert.Contains(t, out, "(100%)")

	code, _, errOut := runCmd("survey", "Nowhere")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, `no survey for "Nowhere"`)

	code, _, errOut = runCmd("answer", "3", "0")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage: community answer")
}

func TestRun_Schedules(t *testing.T) {
	setup(t)
	code, _, _ := runCmd("login", "-email", "asha@uni.edu", "-password", "secret123")
	require.Equal(t, 0, code)

	code, out, _ := runCmd("schedule", "Go", "basics")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "#1 Go basics (1 days)")
	assert.Contains(t, out, "Day 1: Basics")
	assert.Contains(t, out, "- go.dev/tour")

	code, out, _ = runCmd("schedules")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Go basics")

	code, out, _ = runCmd("unschedule", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Deleted schedule #1.")

	code, out, _ = runCmd("schedules")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No learning schedules yet.")

	code, _, errOut := runCmd("unschedule", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "Schedule not found")
}
