// Command seed fills the configured database with demo users, posts, comments and likes.
package main

import (
	"context"
	"flag"
	"log"

	"studentvoice/internal/config"
	"studentvoice/internal/database"
	"studentvoice/internal/middleware"
	"studentvoice/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	users := flag.Int("users", defaults.Users, "number of users to create")
	posts := flag.Int("posts-per-user", defaults.PostsPerUser, "posts per user")
	comments := flag.Int("max-comments", defaults.MaxComments, "maximum comments per post")
	likes := flag.Int("like-percent", defaults.LikePercent, "chance (0-100) that a user likes a post")
	days := flag.Int("days", defaults.MaxDays, "spread creation times over this many days")
	password := flag.String("password", defaults.Password, "password for every demo account")
	seedValue := flag.Int64("seed", 0, "random seed (0 for random content)")
	clean := flag.Bool("clean", false, "delete existing feed data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}
	middleware.Configure(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Run(context.Background(), db, seed.Options{
		Users:        *users,
		PostsPerUser: *posts,
		MaxComments:  *comments,
		LikePercent:  *likes,
		MaxDays:      *days,
		Password:     *password,
		Seed:         *seedValue,
		FastHash:     true,
		Clean:        *clean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("seeded %d users, %d posts, %d comments, %d likes (password %q)",
		summary.Users, summary.Posts, summary.Comments, summary.Likes, *password)
}
