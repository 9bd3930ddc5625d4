package photo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/schmic75-gasos/fody/internal/utils/platformerrors"
)

type queryRepo struct {
	photos     []Photo
	err        error
	lastFilter SearchFilter
}

func (q *queryRepo) FindByHash(ctx context.Context, hash string) (*Photo, error) { return nil, nil }
func (q *queryRepo) Create(ctx context.Context, p *Photo) error                  { return nil }
func (q *queryRepo) GetByID(ctx context.Context, id uint) (*Photo, error)        { return nil, nil }
func (q *queryRepo) UpdateLocation(ctx context.Context, id uint, lat, lon float64) error {
	return nil
}

func (q *queryRepo) Search(ctx context.Context, filter SearchFilter) ([]Photo, error) {
	q.lastFilter = filter
	if q.err != nil {
		return nil, q.err
	}
	matched := make([]Photo, 0, len(q.photos))
	for _, p := range q.photos {
		if filter.BBox != nil && !filter.BBox.Contains(p.Lat, p.Lon) {
			continue
		}
		if filter.AuthorID != nil && p.AuthorID != *filter.AuthorID {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

func queryPhotos() []Photo {
	created := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	return []Photo{
		{ID: 1, AuthorID: 1, AuthorName: "walker", Lat: 49.9500, Lon: 14.4000, Created: created, Enabled: true},
		{ID: 2, AuthorID: 1, AuthorName: "walker", Lat: 49.9510, Lon: 14.4010, Created: created, Enabled: true},
		{ID: 3, AuthorID: 2, AuthorName: "rider", Lat: 49.9600, Lon: 14.4100, Created: created, Enabled: true},
		{ID: 4, AuthorID: 2, AuthorName: "rider", Lat: 55.0000, Lon: 20.0000, Created: created, Enabled: true},
	}
}

func TestListBuildsFeatureCollection(t *testing.T) {
	repo := &queryRepo{photos: queryPhotos()}
	q := NewQueryService(repo, &fakeAuthors{ids: map[string]uint{}}, zerolog.Nop())

	fc, err := q.List(context.Background(), SearchFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q", fc.Type)
	}
	if len(fc.Features) != 4 {
		t.Fatalf("got %d features, want 4", len(fc.Features))
	}
	if fc.Features[0].Properties.Distance != nil {
		t.Error("listing features must not carry distance")
	}
}

func TestListErrorYieldsEmptyCollection(t *testing.T) {
	repo := &queryRepo{err: errors.New("db down")}
	q := NewQueryService(repo, &fakeAuthors{ids: map[string]uint{}}, zerolog.Nop())

	fc, err := q.List(context.Background(), SearchFilter{})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError) {
		t.Errorf("List() error = %v, want DATABASE_ERROR", err)
	}
	if fc.Features == nil || len(fc.Features) != 0 {
		t.Errorf("features = %v, want empty non-nil", fc.Features)
	}
}

func TestNearOrdersByDistanceAndLimits(t *testing.T) {
	repo := &queryRepo{photos: queryPhotos()}
	q := NewQueryService(repo, &fakeAuthors{ids: map[string]uint{}}, zerolog.Nop())

	// Center sits closest to photo 2, then 1, then 3; photo 4 is far away.
	fc, err := q.Near(context.Background(), 49.9512, 14.4012, 5000, SearchFilter{})
	if err != nil {
		t.Fatalf("Near() error = %v", err)
	}

	wantOrder := []uint{2, 1, 3}
	if len(fc.Features) != len(wantOrder) {
		t.Fatalf("got %d features, want %d", len(fc.Features), len(wantOrder))
	}
	prev := -1.0
	for i, want := range wantOrder {
		feat := fc.Features[i]
		if feat.Properties.ID != want {
			t.Errorf("feature[%d].id = %d, want %d", i, feat.Properties.ID, want)
		}
		if feat.Properties.Distance == nil {
			t.Fatalf("feature[%d] has no distance", i)
		}
		if *feat.Properties.Distance < prev {
			t.Errorf("distances not ascending at %d", i)
		}
		prev = *feat.Properties.Distance
	}

	if repo.lastFilter.BBox == nil {
		t.Error("radius query must pre-filter with an envelope")
	}
	if repo.lastFilter.Limit != 0 {
		t.Error("limit must not reach the store for radius queries")
	}

	// Limit applies after distance ordering.
	fc, err = q.Near(context.Background(), 49.9512, 14.4012, 5000, SearchFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Near() error = %v", err)
	}
	if len(fc.Features) != 1 || fc.Features[0].Properties.ID != 2 {
		t.Errorf("limited result = %v, want only the closest photo", fc.Features)
	}
}

func TestNearExcludesBeyondRadius(t *testing.T) {
	repo := &queryRepo{photos: queryPhotos()}
	q := NewQueryService(repo, &fakeAuthors{ids: map[string]uint{}}, zerolog.Nop())

	fc, err := q.Near(context.Background(), 49.9512, 14.4012, 200, SearchFilter{})
	if err != nil {
		t.Fatalf("Near() error = %v", err)
	}
	for _, feat := range fc.Features {
		if *feat.Properties.Distance > 200 {
			t.Errorf("feature %d at %f m exceeds radius", feat.Properties.ID, *feat.Properties.Distance)
		}
	}
}

func TestOwnFailsClosed(t *testing.T) {
	repo := &queryRepo{photos: queryPhotos()}
	authors := &fakeAuthors{ids: map[string]uint{"walker": 1}}
	q := NewQueryService(repo, authors, zerolog.Nop())

	// Unauthenticated: empty collection, no error.
	fc, err := q.Own(context.Background(), "", SearchFilter{})
	if err != nil {
		t.Fatalf("Own() error = %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("unauthenticated Own() returned %d features", len(fc.Features))
	}

	// Unknown identity: same.
	fc, err = q.Own(context.Background(), "stranger", SearchFilter{})
	if err != nil {
		t.Fatalf("Own() error = %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("unknown identity Own() returned %d features", len(fc.Features))
	}

	// Known identity restricted to own photos.
	fc, err = q.Own(context.Background(), "walker", SearchFilter{})
	if err != nil {
		t.Fatalf("Own() error = %v", err)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	for _, feat := range fc.Features {
		if feat.Properties.Author != "walker" {
			t.Errorf("foreign photo %d in own listing", feat.Properties.ID)
		}
	}
}

func TestNearEnvelopeExcludesFarCandidatesInStore(t *testing.T) {
	repo := &queryRepo{photos: queryPhotos()}
	q := NewQueryService(repo, &fakeAuthors{ids: map[string]uint{}}, zerolog.Nop())

	if _, err := q.Near(context.Background(), 49.9512, 14.4012, 5000, SearchFilter{}); err != nil {
		t.Fatalf("Near() error = %v", err)
	}

	box := repo.lastFilter.BBox
	if box == nil {
		t.Fatal("no envelope passed to store")
	}
	if box.Contains(55.0, 20.0) {
		t.Error("envelope should exclude the distant photo")
	}
	if !box.Contains(49.9512, 14.4012) {
		t.Error("envelope must contain the center")
	}
}
