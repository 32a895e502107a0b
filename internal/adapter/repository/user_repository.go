package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentmeet-team/agentmeet/internal/domain/entities"
	"github.com/agentmeet-team/agentmeet/internal/domain/repositories"
)

// userRepository implements the UserRepository interface using GORM
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDs batch-resolves users by id set
func (r *userRepository) FindByIDs(ctx context.Context, ids []string) ([]*entities.User, error) {
	uuids := parseUUIDs(ids)
	if len(uuids) == 0 {
		return nil, nil
	}

	var users []*entities.User
	err := r.db.WithContext(ctx).
		Where("id IN ?", uuids).
		Find(&users).Error
	return users, err
}
