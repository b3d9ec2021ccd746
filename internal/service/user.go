package service

import (
	"context"
	"strings"

	"github.com/BuzzLyutic/task-pipeline/internal/model"
	"github.com/BuzzLyutic/task-pipeline/internal/repo"
)

type UserService struct {
	repo repo.UserRepository
}

func NewUserService(repo repo.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, u model.User) (model.User, error) {
	if strings.TrimSpace(u.Username) == "" {
		return u, ErrValidation
	}
	return s.repo.Create(ctx, u)
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.repo.Get(ctx, id)
}
