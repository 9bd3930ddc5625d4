package photos

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	domain "github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/infrastructure/database/entities"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// Repository handles photo persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByHash(ctx context.Context, hash string) (*domain.Photo, error) {
	var entity entities.Photo
	err := r.db.WithContext(ctx).Preload("Tags").Where("csum = ?", hash).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find photo by hash",
			err,
			"4f8a1c2e-9d3b-4e5f-8a7c-1b2d3e4f5a6b",
		)
	}
	p, err := r.toDomain(ctx, entity)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the photo row and its secondary tags in one transaction.
// A content hash collision surfaces as domain.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, p *domain.Photo) error {
	entity := entities.Photo{
		AuthorID:   p.AuthorID,
		FileName:   p.FileName,
		Ref:        p.Ref,
		PrimaryTag: p.Tags.Primary,
		Csum:       p.Csum,
		Lat:        p.Lat,
		Lon:        p.Lon,
		Created:    p.Created,
		IsEnabled:  p.Enabled,
	}
	for i, name := range p.Tags.Secondaries {
		entity.Tags = append(entity.Tags, entities.PhotoTag{Name: name, Position: i + 1})
	}

	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicate
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create photo",
			err,
			"7c9d2e3f-1a4b-4c5d-9e8f-2a3b4c5d6e7f",
		)
	}

	p.ID = entity.ID
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*domain.Photo, error) {
	var entity entities.Photo
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get photo by id",
			err,
			"3e5f7a9b-2c4d-4e6f-8a0b-3c4d5e6f7a8b",
		)
	}
	p, err := r.toDomain(ctx, entity)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) UpdateLocation(ctx context.Context, id uint, lat, lon float64) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Photo{}).
		Where("id = ?", id).
		Updates(map[string]any{"lat": lat, "lon": lon}).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update photo location",
			err,
			"8b0c2d4e-6f8a-4b1c-9d3e-4f5a6b7c8d9e",
		)
	}
	return nil
}

// Search applies the ANDed filter and returns photos ordered by id ascending.
func (r *Repository) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Photo, error) {
	query := r.db.WithContext(ctx).Model(&entities.Photo{}).Preload("Tags")

	if !filter.IncludeDisabled {
		query = query.Where("is_enabled = ?", true)
	}
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.AuthorID != nil {
		query = query.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.BBox != nil {
		query = query.
			Where("lat BETWEEN ? AND ?", filter.BBox.South, filter.BBox.North).
			Where("lon BETWEEN ? AND ?", filter.BBox.West, filter.BBox.East)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []entities.Photo
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search photos",
			err,
			"5a7b9c1d-3e5f-4a8b-0c2d-5e6f7a8b9c0d",
		)
	}

	names, err := r.authorNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	photos := make([]domain.Photo, 0, len(rows))
	for _, entity := range rows {
		photos = append(photos, mapEntity(entity, names[entity.AuthorID]))
	}
	return photos, nil
}

func (r *Repository) toDomain(ctx context.Context, entity entities.Photo) (domain.Photo, error) {
	names, err := r.authorNames(ctx, []entities.Photo{entity})
	if err != nil {
		return domain.Photo{}, err
	}
	return mapEntity(entity, names[entity.AuthorID]), nil
}

func (r *Repository) authorNames(ctx context.Context, rows []entities.Photo) (map[uint]string, error) {
	if len(rows) == 0 {
		return map[uint]string{}, nil
	}

	ids := make([]uint, 0, len(rows))
	seen := make(map[uint]bool, len(rows))
	for _, entity := range rows {
		if !seen[entity.AuthorID] {
			seen[entity.AuthorID] = true
			ids = append(ids, entity.AuthorID)
		}
	}

	var authors []entities.Author
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&authors).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to resolve author names",
			err,
			"9c1d3e5f-7a9b-4c2d-1e4f-6a7b8c9d0e1f",
		)
	}

	names := make(map[uint]string, len(authors))
	for _, author := range authors {
		names[author.ID] = author.Name
	}
	return names, nil
}

func mapEntity(entity entities.Photo, authorName string) domain.Photo {
	tags := append([]entities.PhotoTag(nil), entity.Tags...)
	sort.Slice(tags, func(i, j int) bool { return tags[i].Position < tags[j].Position })
	secondaries := make([]string, 0, len(tags))
	for _, tag := range tags {
		secondaries = append(secondaries, tag.Name)
	}

	return domain.Photo{
		ID:         entity.ID,
		AuthorID:   entity.AuthorID,
		AuthorName: authorName,
		FileName:   entity.FileName,
		Ref:        entity.Ref,
		Tags:       domain.TagSet{Primary: entity.PrimaryTag, Secondaries: secondaries},
		Created:    entity.Created,
		Lat:        entity.Lat,
		Lon:        entity.Lon,
		Csum:       entity.Csum,
		Enabled:    entity.IsEnabled,
	}
}
