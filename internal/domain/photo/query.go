package photo

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/utils/geodesy"
	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

// SearchFilter narrows a photo search. All set filters are ANDed; zero
// values mean "no restriction". Disabled photos are excluded unless
// IncludeDisabled is set.
type SearchFilter struct {
	BBox            *geodesy.BBox
	ID              *uint
	AuthorID        *uint
	IncludeDisabled bool
	Limit           int
}

// QueryService answers the spatial read queries.
type QueryService struct {
	repo    Repository
	authors AuthorRegistry
	log     zerolog.Logger
}

func NewQueryService(repo Repository, authors AuthorRegistry, log zerolog.Logger) *QueryService {
	return &QueryService{
		repo:    repo,
		authors: authors,
		log:     log.With().Str("component", "photo-query").Logger(),
	}
}

// List returns matching photos ordered by id ascending.
func (q *QueryService) List(ctx context.Context, filter SearchFilter) (FeatureCollection, error) {
	photos, err := q.repo.Search(ctx, filter)
	if err != nil {
		return NewFeatureCollection(nil), platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "search photos", err, "")
	}

	features := make([]Feature, 0, len(photos))
	for _, p := range photos {
		features = append(features, NewFeature(p))
	}
	return NewFeatureCollection(features), nil
}

// Near returns photos within radiusMeters of the center, strictly ordered by
// ascending distance. A radius-derived envelope pre-filters candidates in
// the store; the limit applies after ordering.
func (q *QueryService) Near(ctx context.Context, lat, lon, radiusMeters float64, filter SearchFilter) (FeatureCollection, error) {
	envelope := geodesy.Envelope(lat, lon, radiusMeters)
	limit := filter.Limit
	filter.BBox = &envelope
	filter.Limit = 0

	photos, err := q.repo.Search(ctx, filter)
	if err != nil {
		return NewFeatureCollection(nil), platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "search photos", err, "")
	}

	type candidate struct {
		photo    Photo
		distance float64
	}
	candidates := make([]candidate, 0, len(photos))
	for _, p := range photos {
		d := geodesy.Distance(lat, lon, p.Lat, p.Lon)
		if d <= radiusMeters {
			candidates = append(candidates, candidate{photo: p, distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].photo.ID < candidates[j].photo.ID
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	features := make([]Feature, 0, len(candidates))
	for _, c := range candidates {
		feature := NewFeature(c.photo)
		distance := c.distance
		feature.Properties.Distance = &distance
		features = append(features, feature)
	}
	return NewFeatureCollection(features), nil
}

// Own restricts the listing to the caller's photos. An unauthenticated or
// unknown identity yields an empty collection, never an error.
func (q *QueryService) Own(ctx context.Context, identity string, filter SearchFilter) (FeatureCollection, error) {
	if identity == "" {
		return NewFeatureCollection(nil), nil
	}

	authorID, ok, err := q.authors.Lookup(ctx, identity)
	if err != nil {
		return NewFeatureCollection(nil), platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeDatabaseError, "resolve author", err, "")
	}
	if !ok {
		return NewFeatureCollection(nil), nil
	}

	filter.AuthorID = &authorID
	return q.List(ctx, filter)
}
