// Command seed populates a development database with demo data.
package main

import (
	"flag"
	"log"

	"uniforum/internal/config"
	"uniforum/internal/database"
	"uniforum/internal/seed"
)

func main() {
	users := flag.Int("users", 20, "number of student accounts to create")
	posts := flag.Int("posts", 50, "number of posts to create")
	clean := flag.Bool("clean", false, "truncate all tables before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *users,
		NumPosts:    *posts,
		EmailDomain: cfg.EmailDomain,
		ShouldClean: *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
