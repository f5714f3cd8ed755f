package seed

import (
	"fmt"
	"log"
	"math/rand"

	"uniforum/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	EmailDomain string
	ShouldClean bool
}

// Run populates the database with a demo campus: students, questions,
// replies, votes, tickets and a couple of announcements.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 50
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = "usa.edu.co"
	}

	if opts.ShouldClean {
		if err := Clean(db); err != nil {
			return fmt.Errorf("clean before seed: %w", err)
		}
	}

	f := NewFactory(db, opts.EmailDomain)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}

	// One staff member to own announcements and work the ticket queue.
	staff, err := f.CreateUser(func(u *models.User) {
		u.Role = models.RoleStaff
	})
	if err != nil {
		return fmt.Errorf("seed staff user: %w", err)
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[rand.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		// a handful of replies per post
		for i := 0; i < rand.Intn(5); i++ {
			commenter := users[rand.Intn(len(users))]
			if _, err := f.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}

		// each user votes on roughly a third of posts, skewed positive
		for _, voter := range users {
			if rand.Intn(3) != 0 {
				continue
			}
			kind := models.VoteKindPositive
			if rand.Intn(4) == 0 {
				kind = models.VoteKindNegative
			}
			if _, err := f.CreateVote(voter, post, kind); err != nil {
				return fmt.Errorf("seed vote: %w", err)
			}
		}
	}

	for i := 0; i < opts.NumUsers/4; i++ {
		if _, err := f.CreateTicket(users[rand.Intn(len(users))]); err != nil {
			return fmt.Errorf("seed ticket: %w", err)
		}
	}

	for i := 0; i < 3; i++ {
		if _, err := f.CreateAnnouncement(staff); err != nil {
			return fmt.Errorf("seed announcement: %w", err)
		}
	}

	log.Printf("Seed complete: %d users (+1 staff), %d posts", opts.NumUsers, opts.NumPosts)
	return nil
}

// Clean truncates all seeded tables.
func Clean(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE votes, comments, posts, tickets, announcements, users RESTART IDENTITY CASCADE").Error
}
