package notes

import (
	"context"

	"gorm.io/gorm"

	"github.com/schmic75-gasos/fody/internal/infrastructure/database/entities"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// Repository appends uploader notes.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(ctx context.Context, photoID, authorID uint, body string) error {
	entity := entities.Note{
		PhotoID:  photoID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append note",
			err,
			"4b6c8d0e-2f4a-4c6d-8e0f-7a8b9c0d1e2f",
		)
	}
	return nil
}
