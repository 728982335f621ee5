package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"studentvoice/internal/models"
	"studentvoice/internal/session"
)

// ListPosts fetches the feed. The body may be a bare array or {"posts": [...]}.
func (c *Client) ListPosts(ctx context.Context) ([]models.PostView, error) {
	raw, err := c.Send(ctx, http.MethodGet, "/api/post/allpostlist", nil)
	if err != nil {
		return nil, err
	}

	var posts []models.PostView
	if err := json.Unmarshal(raw, &posts); err == nil {
		return posts, nil
	}
	var wrapped struct {
		Posts []models.PostView `json:"posts"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode post list: %w", err)
	}
	if wrapped.Posts == nil {
		wrapped.Posts = []models.PostView{}
	}
	return wrapped.Posts, nil
}

// GetPost fetches a single post, used for posts outside the feed page.
func (c *Client) GetPost(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := sendJSON[models.PostView](ctx, c, http.MethodGet, "/api/post/"+url.PathEscape(postID), nil)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(ctx context.Context, text string) (*models.PostView, error) {
	post, err := sendJSON[models.PostView](ctx, c, http.MethodPost, "/api/post/postcreate",
		map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) ToggleLike(ctx context.Context, postID string) (*models.PostView, error) {
	post, err := sendJSON[models.PostView](ctx, c, http.MethodPost, postPath(postID, "like"), nil)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]models.CommentView, error) {
	comments, err := sendJSON[[]models.CommentView](ctx, c, http.MethodGet, postPath(postID, "comment"), nil)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	return comments, nil
}

func (c *Client) AddComment(ctx context.Context, postID, text string) (*models.CommentView, error) {
	comment, err := sendJSON[models.CommentView](ctx, c, http.MethodPost, postPath(postID, "comment"),
		map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// AskMentor sends a question. A reply that is not a JSON object is returned
// as a fallback answer carrying the raw text.
func (c *Client) AskMentor(ctx context.Context, question string) (*models.MentorAnswer, error) {
	raw, err := c.Send(ctx, http.MethodPost, "/api/ai/ask", map[string]string{"question": question})
	if err != nil {
		return nil, err
	}

	var answer models.MentorAnswer
	if err := json.Unmarshal(raw, &answer); err == nil && (answer.Answer != "" || answer.Advice != "") {
		if answer.Answer == "" {
			answer.Answer = answer.Advice
		}
		return &answer, nil
	}

	text := strings.TrimSpace(string(raw))
	var s string
	if json.Unmarshal(raw, &s) == nil {
		text = s
	}
	return &models.MentorAnswer{
		Question:     question,
		Answer:       text,
		Advice:       text,
		YoutubeLinks: []string{},
		Fallback:     true,
	}, nil
}

func (c *Client) MentorHistory(ctx context.Context) ([]models.MentorAnswer, error) {
	return sendJSON[[]models.MentorAnswer](ctx, c, http.MethodGet, "/api/ai/history", nil)
}

// CreateSchedule asks the mentor for a learning schedule on topic.
func (c *Client) CreateSchedule(ctx context.Context, topic string) (*models.LearningSchedule, error) {
	schedule, err := sendJSON[models.LearningSchedule](ctx, c, http.MethodPost, "/api/ai/schedule",
		map[string]string{"topic": topic})
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (c *Client) Schedules(ctx context.Context) ([]*models.LearningSchedule, error) {
	return sendJSON[[]*models.LearningSchedule](ctx, c, http.MethodGet, "/api/ai/schedule", nil)
}

func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	_, err := c.Send(ctx, http.MethodDelete, "/api/ai/schedule/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) Surveys(ctx context.Context) ([]models.SurveySummary, error) {
	return sendJSON[[]models.SurveySummary](ctx, c, http.MethodGet, "/api/surveys", nil)
}

func (c *Client) Colleges(ctx context.Context) ([]string, error) {
	return sendJSON[[]string](ctx, c, http.MethodGet, "/api/questions/allcollege", nil)
}

// SurveyQuestions lists the college's questions. With a session the caller's
// earlier choices are filled in.
func (c *Client) SurveyQuestions(ctx context.Context, college string) ([]*models.SurveyQuestion, error) {
	questions, err := sendJSON[[]*models.SurveyQuestion](ctx, c, http.MethodGet,
		"/api/questions?college="+url.QueryEscape(college), nil)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []*models.SurveyQuestion{}
	}
	return questions, nil
}

// AnswerQuestion records a zero-based choice.
func (c *Client) AnswerQuestion(ctx context.Context, questionID string, choice int) (*models.AnswerResult, error) {
	result, err := sendJSON[models.AnswerResult](ctx, c, http.MethodPost,
		"/api/questions/"+url.PathEscape(questionID)+"/answer", map[string]int{"choice": choice})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SurveyResults(ctx context.Context, college string) (*models.SurveyResults, error) {
	results, err := sendJSON[models.SurveyResults](ctx, c, http.MethodGet,
		"/api/questions/result/"+url.PathEscape(college), nil)
	if err != nil {
		return nil, err
	}
	return &results, nil
}

// Login authenticates and persists the returned token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := sendJSON[models.AuthResponse](ctx, c, http.MethodPost, "/api/user/login",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	if err := c.persist(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterInput is the account created by Register.
type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
	CollegeID   string `json:"college_id,omitempty"`
	CollegeName string `json:"college_name,omitempty"`
}

// Register creates an account and persists the returned token and user.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	resp, err := sendJSON[models.AuthResponse](ctx, c, http.MethodPost, "/api/user/userlogin", in)
	if err != nil {
		return nil, err
	}
	if err := c.persist(&resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the token server side and clears the local session even
// when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	var remoteErr error
	if c.Token() != "" {
		_, remoteErr = c.Send(ctx, http.MethodPost, "/api/user/logout", nil)
	}
	if c.store != nil {
		if err := c.store.Clear(); err != nil {
			return err
		}
	}
	return remoteErr
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	user, err := sendJSON[models.User](ctx, c, http.MethodGet, "/api/user/getme", nil)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Points(ctx context.Context, userID string) (*models.PointsView, error) {
	points, err := sendJSON[models.PointsView](ctx, c, http.MethodGet, "/api/points/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	return &points, nil
}

// VerifyIdentity uploads both photos base64 encoded.
func (c *Client) VerifyIdentity(ctx context.Context, selfie, idCard []byte) (*models.VerificationResult, error) {
	result, err := sendJSON[models.VerificationResult](ctx, c, http.MethodPost, "/api/user/verify",
		map[string]string{
			"selfie":  base64.StdEncoding.EncodeToString(selfie),
			"id_card": base64.StdEncoding.EncodeToString(idCard),
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) persist(resp *models.AuthResponse) error {
	if c.store == nil {
		return nil
	}
	sess := session.Session{Token: resp.Token}
	if u := resp.User; u != nil {
		sess.User = &session.User{
			ID:       strconv.FormatUint(uint64(u.ID), 10),
			Name:     u.Name,
			Email:    u.Email,
			Role:     u.Role,
			Verified: u.IsVerified,
		}
	}
	if err := c.store.Save(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func postPath(postID, action string) string {
	return "/api/post/" + url.PathEscape(postID) + "/" + action
}
