// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"uniforum/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db          *gorm.DB
	r           *rand.Rand
	emailDomain string
}

// NewFactory creates a new Factory bound to the provided Gorm DB. All
// generated students get addresses on emailDomain.
func NewFactory(db *gorm.DB, emailDomain string) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:          db,
		r:           rand.New(rand.NewSource(time.Now().UnixNano())),
		emailDomain: emailDomain,
	}
}

// CreateUser constructs and persists a sample student account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("Password123!demo"), bcrypt.DefaultCost)

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@%s", username, f.emailDomain),
		Password: string(hashedPassword),
		Role:     models.RoleStudent,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample forum question.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Question(),
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
		Active:  true,
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.r.Intn(90)
	hoursBack := f.r.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample reply on a post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(12),
		UserID:  user.ID,
		PostID:  post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateVote persists a vote row and keeps the post counters in step, the
// same way the live vote pathway does.
func (f *Factory) CreateVote(user *models.User, post *models.Post, kind models.VoteKind) (*models.Vote, error) {
	vote := &models.Vote{
		UserID: user.ID,
		PostID: post.ID,
		Kind:   kind,
	}

	err := f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		column := "positive_count"
		if kind == models.VoteKindNegative {
			column = "negative_count"
		}
		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Update(column, gorm.Expr(column+" + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}

// CreateTicket persists a sample support ticket.
func (f *Factory) CreateTicket(user *models.User, overrides ...func(*models.Ticket)) (*models.Ticket, error) {
	priorities := []string{models.TicketPriorityLow, models.TicketPriorityMedium, models.TicketPriorityHigh}

	ticket := &models.Ticket{
		UserID:   user.ID,
		Title:    gofakeit.Sentence(5),
		Message:  gofakeit.Paragraph(1, 2, 4, "\n"),
		Priority: priorities[f.r.Intn(len(priorities))],
		Status:   models.TicketStatusOpen,
	}

	for _, override := range overrides {
		override(ticket)
	}

	if err := f.db.Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// CreateAnnouncement persists a sample staff notice.
func (f *Factory) CreateAnnouncement(staff *models.User, overrides ...func(*models.Announcement)) (*models.Announcement, error) {
	announcement := &models.Announcement{
		StaffID:  staff.ID,
		Title:    gofakeit.Sentence(4),
		Content:  gofakeit.Paragraph(1, 2, 4, "\n"),
		Featured: f.r.Intn(5) == 0,
		Active:   true,
	}

	for _, override := range overrides {
		override(announcement)
	}

	if err := f.db.Create(announcement).Error; err != nil {
		return nil, err
	}
	return announcement, nil
}
