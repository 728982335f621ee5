package seed

import (
	"context"
	"fmt"

	"studentvoice/internal/middleware"
	"studentvoice/internal/models"

	"gorm.io/gorm"
)

// Options configures the demo data set.
type Options struct {
	Users           int
	PostsPerUser    int
	MaxComments     int // per post
	LikePercent     int // chance that a given user likes a given post
	MaxDays         int // creation times spread over this many past days
	Password        string
	EmailDomain     string
	Seed            int64
	FastHash        bool
	Clean           bool
	SkipIfPopulated bool
}

// DefaultOptions is the data set used by cmd/seed without flags.
func DefaultOptions() Options {
	return Options{
		Users:        20,
		PostsPerUser: 3,
		MaxComments:  6,
		LikePercent:  30,
		MaxDays:      30,
		Password:     "password123",
		EmailDomain:  "demo.studentvoice.dev",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Users <= 0 {
		o.Users = d.Users
	}
	if o.PostsPerUser < 0 {
		o.PostsPerUser = 0
	}
	if o.MaxComments < 0 {
		o.MaxComments = 0
	}
	if o.LikePercent < 0 || o.LikePercent > 100 {
		o.LikePercent = d.LikePercent
	}
	if o.MaxDays <= 0 {
		o.MaxDays = d.MaxDays
	}
	if o.Password == "" {
		o.Password = d.Password
	}
	if o.EmailDomain == "" {
		o.EmailDomain = d.EmailDomain
	}
	return o
}

// Summary counts the rows created by Run.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Skipped  bool
}

// Run fills db with demo users, posts, comments and likes inside one transaction.
func Run(ctx context.Context, db *gorm.DB, opts Options) (Summary, error) {
	opts = opts.withDefaults()
	var summary Summary

	if opts.SkipIfPopulated && !opts.Clean {
		var count int64
		if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
			return summary, fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			summary.Skipped = true
			return summary, nil
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Clean {
			if err := clean(tx); err != nil {
				return err
			}
		}

		f, err := NewFactory(tx, opts)
		if err != nil {
			return err
		}

		users := make([]*models.User, 0, opts.Users)
		for i := range opts.Users {
			u, err := f.CreateUser(i + 1)
			if err != nil {
				return err
			}
			users = append(users, u)
			if err := tx.Create(&models.UserPoints{UserID: u.ID}).Error; err != nil {
				return fmt.Errorf("create points: %w", err)
			}
		}
		summary.Users = len(users)

		for _, author := range users {
			for range opts.PostsPerUser {
				post, err := f.CreatePost(author)
				if err != nil {
					return err
				}
				summary.Posts++
				if err := award(tx, author.ID, "community", models.AwardPost); err != nil {
					return err
				}

				for range f.faker.Number(0, opts.MaxComments) {
					commenter := users[f.faker.Number(0, len(users)-1)]
					if _, err := f.CreateComment(post, commenter); err != nil {
						return err
					}
					summary.Comments++
					if err := award(tx, commenter.ID, "community", models.AwardComment); err != nil {
						return err
					}
				}

				for _, u := range users {
					if f.faker.Number(1, 100) > opts.LikePercent {
						continue
					}
					if err := f.Like(post, u); err != nil {
						return err
					}
					summary.Likes++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	middleware.Logger.InfoContext(ctx, "demo data seeded",
		"users", summary.Users, "posts", summary.Posts,
		"comments", summary.Comments, "likes", summary.Likes)
	return summary, nil
}

func award(tx *gorm.DB, userID uint, column string, amount int) error {
	err := tx.Model(&models.UserPoints{}).Where("user_id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", amount)).Error
	if err != nil {
		return fmt.Errorf("award points: %w", err)
	}
	return nil
}

// clean hard-deletes every feed table, children first.
func clean(tx *gorm.DB) error {
	for _, model := range []any{
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.MentorChat{},
		&models.UserPoints{},
		&models.User{},
	} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("clean %T: %w", model, err)
		}
	}
	return nil
}
