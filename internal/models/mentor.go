package models

import "time"

// MentorChat stores one question/answer exchange with the AI mentor.
type MentorChat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Response  string    `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ScheduleDay is one day of a learning schedule.
type ScheduleDay struct {
	Day          string   `json:"day"`
	LearningGoal string   `json:"learning_goal"`
	Details      string   `json:"details"`
	Resources    []string `json:"resources"`
}

// LearningSchedule is a day-by-day study plan produced by the mentor.
// A reply that could not be parsed is kept with Fallback set, no days and the
// raw text as Advice.
type LearningSchedule struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	Topic     string        `gorm:"not null" json:"topic"`
	TotalDays *int          `json:"total_days"`
	Days      []ScheduleDay `gorm:"type:text;serializer:json" json:"schedule"`
	Advice    string        `gorm:"type:text" json:"advice"`
	Response  string        `gorm:"type:text" json:"-"`
	Fallback  bool          `gorm:"not null;default:false" json:"fallback"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
}
