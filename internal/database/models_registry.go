package database

import "studentvoice/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.MentorChat{},
		&models.LearningSchedule{},
		&models.SurveyQuestion{},
		&models.SurveyAnswer{},
		&models.UserPoints{},
	}
}
