package models

import "time"

// SurveyQuestion is one multiple-choice question of a college's survey.
type SurveyQuestion struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	College  string   `gorm:"not null;uniqueIndex:idx_survey_college_position" json:"college"`
	Position int      `gorm:"not null;uniqueIndex:idx_survey_college_position" json:"position"`
	Text     string   `gorm:"type:text;not null" json:"text"`
	Options  []string `gorm:"type:text;serializer:json" json:"options"`
	// MyChoice is the caller's answer, filled per request.
	MyChoice  *int      `gorm:"-" json:"my_choice,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SurveyAnswer is a student's choice for one question. Answering again
// replaces the choice.
type SurveyAnswer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_survey_answer_user" json:"question_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_survey_answer_user;index" json:"user_id"`
	Choice     int       `gorm:"not null" json:"choice"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SurveySummary describes one college survey in the survey list.
type SurveySummary struct {
	College     string `json:"college"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   int    `json:"questions"`
}

// QuestionResult tallies the answers to one question. Counts is indexed
// like Options.
type QuestionResult struct {
	QuestionID uint     `json:"question_id"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Counts     []int    `json:"counts"`
	Total      int      `json:"total"`
}

// SurveyResults is the aggregate of a college survey.
type SurveyResults struct {
	College   string           `json:"college"`
	Responses int              `json:"responses"`
	Questions []QuestionResult `json:"questions"`
}

// AnswerResult acknowledges a survey answer.
type AnswerResult struct {
	QuestionID uint `json:"question_id"`
	Choice     int  `json:"choice"`
	// Awarded is the number of survey points earned, zero when re-answering.
	Awarded int `json:"awarded"`
}
