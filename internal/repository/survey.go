package repository

import (
	"context"
	"errors"

	"studentvoice/internal/models"
	"studentvoice/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OptionCount is the number of answers choosing one option of a question.
type OptionCount struct {
	QuestionID uint
	Choice     int
	Count      int
}

// SurveyRepository stores college survey questions and student answers.
type SurveyRepository interface {
	// CreateQuestions inserts questions, skipping positions that already exist for the college.
	CreateQuestions(ctx context.Context, questions []*models.SurveyQuestion) error
	CountQuestions(ctx context.Context, college string) (int64, error)
	ListColleges(ctx context.Context) ([]string, error)
	ListQuestions(ctx context.Context, college string) ([]*models.SurveyQuestion, error)
	GetQuestion(ctx context.Context, id uint) (*models.SurveyQuestion, error)
	// SaveAnswer stores or replaces the user's answer and reports whether it is the first one.
	SaveAnswer(ctx context.Context, answer *models.SurveyAnswer) (bool, error)
	AnswersByUser(ctx context.Context, userID uint, questionIDs []uint) (map[uint]int, error)
	Tally(ctx context.Context, college string) ([]OptionCount, error)
	CountRespondents(ctx context.Context, college string) (int64, error)
}

type surveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) SurveyRepository {
	return &surveyRepository{db: db}
}

func (r *surveyRepository) CreateQuestions(ctx context.Context, questions []*models.SurveyQuestion) error {
	defer observability.TrackQuery("create", "survey_questions")()
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(questions).Error
}

func (r *surveyRepository) CountQuestions(ctx context.Context, college string) (int64, error) {
	defer observability.TrackQuery("count", "survey_questions")()
	var n int64
	err := r.db.WithContext(ctx).Model(&models.SurveyQuestion{}).
		Where("college = ?", college).
		Count(&n).Error
	return n, err
}

// ListColleges returns every college with a survey, alphabetically.
func (r *surveyRepository) ListColleges(ctx context.Context) ([]string, error) {
	defer observability.TrackQuery("list_colleges", "survey_questions")()
	var colleges []string
	err := r.db.WithContext(ctx).Model(&models.SurveyQuestion{}).
		Distinct("college").
		Order("college").
		Pluck("college", &colleges).Error
	return colleges, err
}

func (r *surveyRepository) ListQuestions(ctx context.Context, college string) ([]*models.SurveyQuestion, error) {
	defer observability.TrackQuery("list", "survey_questions")()
	var questions []*models.SurveyQuestion
	err := r.db.WithContext(ctx).
		Where("college = ?", college).
		Order("position").
		Find(&questions).Error
	return questions, err
}

func (r *surveyRepository) GetQuestion(ctx context.Context, id uint) (*models.SurveyQuestion, error) {
	defer observability.TrackQuery("get", "survey_questions")()
	var q models.SurveyQuestion
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *surveyRepository) SaveAnswer(ctx context.Context, answer *models.SurveyAnswer) (bool, error) {
	defer observability.TrackQuery("save_answer", "survey_answers")()
	first := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SurveyAnswer
		err := tx.Where("question_id = ? AND user_id = ?", answer.QuestionID, answer.UserID).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			first = true
			return tx.Create(answer).Error
		case err != nil:
			return err
		}
		answer.ID = existing.ID
		answer.CreatedAt = existing.CreatedAt
		return tx.Model(&existing).Update("choice", answer.Choice).Error
	})
	return first, err
}

// AnswersByUser maps question id to the user's chosen option.
func (r *surveyRepository) AnswersByUser(ctx context.Context, userID uint, questionIDs []uint) (map[uint]int, error) {
	defer observability.TrackQuery("list", "survey_answers")()
	out := make(map[uint]int, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	var answers []models.SurveyAnswer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	for _, a := range answers {
		out[a.QuestionID] = a.Choice
	}
	return out, nil
}

func (r *surveyRepository) Tally(ctx context.Context, college string) ([]OptionCount, error) {
	defer observability.TrackQuery("tally", "survey_answers")()
	var counts []OptionCount
	err := r.db.WithContext(ctx).
		Table("survey_answers").
		Select("survey_answers.question_id AS question_id, survey_answers.choice AS choice, COUNT(*) AS count").
		Joins("JOIN survey_questions ON survey_questions.id = survey_answers.question_id").
		Where("survey_questions.college = ?", college).
		Group("survey_answers.question_id, survey_answers.choice").
		Scan(&counts).Error
	return counts, err
}

// CountRespondents returns how many distinct users answered at least one question.
func (r *surveyRepository) CountRespondents(ctx context.Context, college string) (int64, error) {
	defer observability.TrackQuery("count_respondents", "survey_answers")()
	var n int64
	err := r.db.WithContext(ctx).
		Table("survey_answers").
		Joins("JOIN survey_questions ON survey_questions.id = survey_answers.question_id").
		Where("survey_questions.college = ?", college).
		Distinct("survey_answers.user_id").
		Count(&n).Error
	return n, err
}
