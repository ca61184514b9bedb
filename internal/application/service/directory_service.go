package service

import (
	"context"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/domain/entity"
)

// DirectoryService serves the user directory. It stands in for a real
// identity provider; the login screen lists these users for selection.
type DirectoryService interface {
	Get(ctx context.Context, id int64) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
}

type directoryServiceImpl struct {
	userRepo port.UserRepository
	logger   Logger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(userRepo port.UserRepository, logger Logger) DirectoryService {
	return &directoryServiceImpl{userRepo: userRepo, logger: logger}
}

func (s *directoryServiceImpl) Get(ctx context.Context, id int64) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get user", "error", err, "id", id)
		return nil, err
	}
	if user == nil {
		return nil, notFoundErr("user %d", id)
	}
	return user, nil
}

func (s *directoryServiceImpl) List(ctx context.Context) ([]*entity.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}
