// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"strings"
	"time"

	"studentvoice/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities with fake content and persists them.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options
	hash  string
	now   time.Time
}

// NewFactory creates a Factory. A zero opts.Seed yields random content.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	opts = opts.withDefaults()

	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	return &Factory{
		db:    db,
		faker: gofakeit.New(opts.Seed),
		opts:  opts,
		hash:  string(hash),
		now:   time.Now().UTC(),
	}, nil
}

// CreateUser persists a student with a unique demo email. i keeps emails stable across runs.
func (f *Factory) CreateUser(i int, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:        first + " " + last,
		Email:       fmt.Sprintf("%s.%s%d@%s", strings.ToLower(first), strings.ToLower(last), i, f.opts.EmailDomain),
		Password:    f.hash,
		Role:        models.RoleStudent,
		CollegeID:   f.faker.Numerify("CLG-####"),
		CollegeName: f.faker.Company() + " College",
	}
	if f.faker.Number(1, 100) <= 15 {
		user.Role = models.RoleViewer
	}
	if f.faker.Number(1, 100) <= 40 {
		verifiedAt := f.pastTime()
		user.IsVerified = true
		user.VerifiedAt = &verifiedAt
	}

	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreatePost persists a post with a creation time spread over the last MaxDays.
func (f *Factory) CreatePost(author *models.User) (*models.Post, error) {
	post := &models.Post{
		UserID:    author.ID,
		Text:      f.postText(),
		CreatedAt: f.pastTime(),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateComment persists a comment written after the post it belongs to.
func (f *Factory) CreateComment(post *models.Post, author *models.User) (*models.Comment, error) {
	elapsed := f.now.Sub(post.CreatedAt)
	offset := time.Duration(f.faker.Number(1, 100)) * elapsed / 101
	comment := &models.Comment{
		UserID:    author.ID,
		PostID:    post.ID,
		Text:      f.faker.Sentence(f.faker.Number(4, 18)),
		CreatedAt: post.CreatedAt.Add(offset),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Like persists a like; the (user, post) pair must be new.
func (f *Factory) Like(post *models.Post, user *models.User) error {
	if err := f.db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error; err != nil {
		return fmt.Errorf("create like: %w", err)
	}
	return nil
}

var postOpeners = []string{
	"Does anyone have notes for",
	"Study group forming for",
	"Quick tip about",
	"Just finished my project on",
	"Looking for advice on",
	"Anyone else struggling with",
}

func (f *Factory) postText() string {
	opener := postOpeners[f.faker.Number(0, len(postOpeners)-1)]
	topic := f.faker.HackerNoun()
	body := f.faker.Paragraph(1, f.faker.Number(1, 3), 12, " ")
	return fmt.Sprintf("%s %s? %s", opener, topic, body)
}

func (f *Factory) pastTime() time.Time {
	minutes := f.faker.Number(1, f.opts.MaxDays*24*60)
	return f.now.Add(-time.Duration(minutes) * time.Minute)
}
