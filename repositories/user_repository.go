package repositories

import (
	"context"

	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/models"
	"gorm.io/gorm"
)

// IUserRepository is the directory lookup consulted by the lifecycle
// engine before allowing a booking.
type IUserRepository interface {
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindActiveProfileCompleteArtistByID(ctx context.Context, id uint) (*models.User, error)
}

type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a GORM-backed user directory.
func NewUserRepository() IUserRepository {
	return &UserRepository{db: db.GetDB()}
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindActiveProfileCompleteArtistByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND role = ? AND is_active = ? AND is_profile_complete = ?",
			id, models.RoleArtist, true, true).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
