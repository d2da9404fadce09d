package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Shivanand-hulikatti/care-connect/internal/lib/logger/sl"
	"github.com/Shivanand-hulikatti/care-connect/internal/model"
)

// UserService saves user profiles keyed by email.
type UserService struct {
	log   *slog.Logger
	users UserStore
}

// NewUserService constructs a UserService.
func NewUserService(log *slog.Logger, users UserStore) *UserService {
	return &UserService{log: log, users: users}
}

// Upsert saves the user's profile fields under email. No schema is enforced.
func (s *UserService) Upsert(ctx context.Context, email string, fields model.Document) (model.UpdateResult, error) {
	const op = "service.UserService.Upsert"

	email = strings.TrimSpace(email)
	if email == "" {
		return model.UpdateResult{}, ErrEmailRequired
	}

	res, err := s.users.Upsert(ctx, email, fields)
	if err != nil {
		s.log.Error("failed to upsert user", slog.String("op", op), slog.String("email", email), sl.Err(err))
		return model.UpdateResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
