package models

import "time"

// Point categories.
const (
	PointsSurveys    = "surveys"
	PointsCommunity  = "community"
	PointsAIUsage    = "ai_usage"
	PointsDailyLogin = "daily_login"
)

// Awards per activity.
const (
	AwardPost       = 5
	AwardComment    = 2
	AwardMentorAsk  = 10
	AwardDailyLogin = 1
	AwardSurvey     = 3
)

// UserPoints holds the gamification totals for one user.
type UserPoints struct {
	UserID     uint `gorm:"primaryKey;autoIncrement:false" json:"-"`
	Surveys    int  `gorm:"not null;default:0" json:"surveys"`
	Community  int  `gorm:"not null;default:0" json:"community"`
	AIUsage    int  `gorm:"column:ai_usage;not null;default:0" json:"ai_usage"`
	DailyLogin int  `gorm:"not null;default:0" json:"daily_login"`
	// LastDailyLogin is the UTC date (YYYY-MM-DD) of the last daily login award.
	LastDailyLogin string    `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// Total sums all categories.
func (p *UserPoints) Total() int {
	return p.Surveys + p.Community + p.AIUsage + p.DailyLogin
}

// PointsView is the wire shape of a user's points.
type PointsView struct {
	Surveys    int `json:"surveys"`
	Community  int `json:"community"`
	AIUsage    int `json:"ai_usage"`
	DailyLogin int `json:"daily_login"`
	Total      int `json:"total"`
}

func (p *UserPoints) View() PointsView {
	return PointsView{
		Surveys:    p.Surveys,
		Community:  p.Community,
		AIUsage:    p.AIUsage,
		DailyLogin: p.DailyLogin,
		Total:      p.Total(),
	}
}
