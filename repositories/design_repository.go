package repositories

import (
	"context"

	"github.com/mehendiverse/marketplace-app/db"
	"github.com/mehendiverse/marketplace-app/models"
	"gorm.io/gorm"
)

// IDesignRepository resolves design references from the catalog.
type IDesignRepository interface {
	FindDesignByID(ctx context.Context, id uint) (*models.Design, error)
}

type DesignRepository struct {
	db *gorm.DB
}

// NewDesignRepository returns a GORM-backed design catalog lookup.
func NewDesignRepository() IDesignRepository {
	return &DesignRepository{db: db.GetDB()}
}

func (r *DesignRepository) FindDesignByID(ctx context.Context, id uint) (*models.Design, error) {
	var design models.Design
	if err := r.db.WithContext(ctx).First(&design, id).Error; err != nil {
		return nil, err
	}
	return &design, nil
}
