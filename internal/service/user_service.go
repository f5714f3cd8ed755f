package service

import (
	"context"

	"uniforum/internal/models"
	"uniforum/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserWithPosts(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.userRepo.GetByIDWithPosts(ctx, id, limit)
}

// IsStaff reports whether the given user holds the staff role. Wired into
// the other services as their authorization check.
func (s *UserService) IsStaff(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff(), nil
}

// SetRole promotes or demotes a user. Only reachable through staff routes.
func (s *UserService) SetRole(ctx context.Context, targetID uint, role string) (*models.User, error) {
	if role != models.RoleStudent && role != models.RoleStaff {
		return nil, models.NewValidationError("Role must be student or staff")
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
