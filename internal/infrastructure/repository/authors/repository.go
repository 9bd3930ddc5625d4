package authors

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/schmic75-gasos/fody/internal/infrastructure/database/entities"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// Repository maps identity names to author rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate returns the author id for name, registering it on first use.
func (r *Repository) GetOrCreate(ctx context.Context, name string) (uint, error) {
	var entity entities.Author
	err := r.db.WithContext(ctx).
		Where(entities.Author{Name: name}).
		FirstOrCreate(&entity).Error
	if err != nil {
		// A concurrent registration hits the unique name index; re-read.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if readErr := r.db.WithContext(ctx).Where("name = ?", name).First(&entity).Error; readErr == nil {
				return entity.ID, nil
			}
		}
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get or create author",
			err,
			"2b4c6d8e-0f2a-4b6c-8d0e-1f2a3b4c5d6e",
		)
	}
	return entity.ID, nil
}

// Lookup resolves an identity name without creating it.
func (r *Repository) Lookup(ctx context.Context, name string) (uint, bool, error) {
	var entity entities.Author
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to look up author",
			err,
			"6d8e0f2a-4b6c-4d8e-0f2a-3b4c5d6e7f8a",
		)
	}
	return entity.ID, true, nil
}
