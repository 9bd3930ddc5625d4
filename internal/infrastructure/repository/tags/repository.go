package tags

import (
	"context"

	"gorm.io/gorm"

	"github.com/schmic75-gasos/fody/internal/domain/taxonomy"
	"github.com/schmic75-gasos/fody/internal/infrastructure/database/entities"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// Repository reads the tag taxonomy.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListAll(ctx context.Context) ([]taxonomy.Tag, error) {
	var rows []entities.Tag
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list tags",
			err,
			"0f2a4b6c-8d0e-4f2a-6b8c-5d6e7f8a9b0c",
		)
	}

	tags := make([]taxonomy.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, taxonomy.Tag{
			ID:                row.ID,
			Name:              row.Name,
			Description:       row.Description,
			ReferenceRequired: row.ReferenceRequired,
			ParentID:          row.ParentID,
			Priority:          row.Priority,
		})
	}
	return tags, nil
}
