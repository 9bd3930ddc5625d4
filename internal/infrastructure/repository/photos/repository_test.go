package photos

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	domain "github.com/schmic75-gasos/fody/internal/domain/photo"
	"github.com/schmic75-gasos/fody/internal/infrastructure/database/entities"
	authorsrepo "github.com/schmic75-gasos/fody/internal/infrastructure/repository/authors"
	"github.com/schmic75-gasos/fody/internal/utils/geodesy"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&entities.Author{},
		&entities.Tag{},
		&entities.Photo{},
		&entities.PhotoTag{},
		&entities.Note{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func seedAuthor(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	id, err := authorsrepo.NewRepository(db).GetOrCreate(context.Background(), name)
	if err != nil {
		t.Fatalf("seed author: %v", err)
	}
	return id
}

func samplePhoto(authorID uint, n int) *domain.Photo {
	return &domain.Photo{
		AuthorID:   authorID,
		FileName:   fmt.Sprintf("IMG_%04d.jpg", n),
		Ref:        "none",
		Tags:       domain.TagSet{Primary: "rozcestnik", Secondaries: []string{"konzolovy", "drevena"}},
		Created:    time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC),
		Lat:        49.95,
		Lon:        14.40,
		Csum:       fmt.Sprintf("%064d", n),
		Enabled:    true,
		AuthorName: "ignored-on-write",
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	authorID := seedAuthor(t, db, "walker")

	p := samplePhoto(authorID, 1)
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == 0 {
		t.Fatal("id not backfilled")
	}

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("photo not found")
	}
	if got.AuthorName != "walker" {
		t.Errorf("author name = %q, want walker", got.AuthorName)
	}
	if got.Tags.Primary != "rozcestnik" {
		t.Errorf("primary tag = %q", got.Tags.Primary)
	}
	if len(got.Tags.Secondaries) != 2 ||
		got.Tags.Secondaries[0] != "konzolovy" || got.Tags.Secondaries[1] != "drevena" {
		t.Errorf("secondaries = %v, want submission order preserved", got.Tags.Secondaries)
	}
	if !got.Enabled {
		t.Error("enabled flag lost")
	}
}

func TestGetByIDMissingIsNil(t *testing.T) {
	repo := NewRepository(testDB(t))

	got, err := repo.GetByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestFindByHash(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	authorID := seedAuthor(t, db, "walker")

	p := samplePhoto(authorID, 1)
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.FindByHash(context.Background(), p.Csum)
	if err != nil {
		t.Fatalf("FindByHash() error = %v", err)
	}
	if got == nil || got.ID != p.ID {
		t.Errorf("got %v, want photo %d", got, p.ID)
	}

	miss, err := repo.FindByHash(context.Background(), fmt.Sprintf("%064d", 999))
	if err != nil {
		t.Fatalf("FindByHash() miss error = %v", err)
	}
	if miss != nil {
		t.Errorf("miss returned %v", miss)
	}
}

func TestCreateDuplicateHashReportsErrDuplicate(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	authorID := seedAuthor(t, db, "walker")

	first := samplePhoto(authorID, 1)
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second := samplePhoto(authorID, 2)
	second.Csum = first.Csum
	second.Tags = domain.TagSet{Primary: "rozcestnik"}

	err := repo.Create(context.Background(), second)
	if !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("Create() error = %v, want ErrDuplicate", err)
	}
}

func TestUpdateLocation(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	authorID := seedAuthor(t, db, "walker")

	p := samplePhoto(authorID, 1)
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdateLocation(context.Background(), p.ID, 50.08, 14.43); err != nil {
		t.Fatalf("UpdateLocation() error = %v", err)
	}

	got, err := repo.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Lat != 50.08 || got.Lon != 14.43 {
		t.Errorf("location = (%f, %f)", got.Lat, got.Lon)
	}
}

func TestSearchFiltersAreANDed(t *testing.T) {
	db := testDB(t)
	repo := NewRepository(db)
	walker := seedAuthor(t, db, "walker")
	rider := seedAuthor(t, db, "rider")
	ctx := context.Background()

	inside := samplePhoto(walker, 1)
	inside.Lat, inside.Lon = 49.95, 14.40

	outside := samplePhoto(walker, 2)
	outside.Lat, outside.Lon = 55.0, 20.0

	disabled := samplePhoto(rider, 3)
	disabled.Lat, disabled.Lon = 49.96, 14.41
	disabled.Enabled = false

	foreign := samplePhoto(rider, 4)
	foreign.Lat, foreign.Lon = 49.94, 14.39

	for _, p := range []*domain.Photo{inside, outside, disabled, foreign} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	box := &geodesy.BBox{West: 14.0, South: 49.0, East: 15.0, North: 50.0}

	// Default search hides disabled photos.
	got, err := repo.Search(ctx, domain.SearchFilter{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 3 {
		t.Errorf("default search returned %d photos, want 3", len(got))
	}

	// IncludeDisabled reveals the hidden one.
	got, err = repo.Search(ctx, domain.SearchFilter{IncludeDisabled: true})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("include-disabled search returned %d photos, want 4", len(got))
	}

	// BBox and id are ANDed: a matching id outside the box yields nothing.
	got, err = repo.Search(ctx, domain.SearchFilter{BBox: box, ID: &outside.ID})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("bbox+id search returned %d photos, want 0", len(got))
	}

	// BBox and author ANDed.
	got, err = repo.Search(ctx, domain.SearchFilter{BBox: box, AuthorID: &walker})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Errorf("bbox+author search = %v, want only the inside photo", got)
	}

	// Results ordered by id ascending, limit honored.
	got, err = repo.Search(ctx, domain.SearchFilter{BBox: box, Limit: 1})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Errorf("limited search = %v, want first id in the box", got)
	}

	// Author names resolved on search results.
	got, err = repo.Search(ctx, domain.SearchFilter{BBox: box})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	for _, p := range got {
		if p.AuthorName == "" {
			t.Errorf("photo %d missing author name", p.ID)
		}
	}
}
