package taxonomy

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	ListAll(ctx context.Context) ([]Tag, error)
}

// Service exposes the tag taxonomy to classification and listing.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "taxonomy-service").Logger(),
	}
}

// ListTree returns every primary tag with its secondaries. Primaries are
// ordered by id, secondaries by descending priority then id.
func (s *Service) ListTree(ctx context.Context) ([]PrimaryTag, error) {
	tags, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	secondaries := make(map[uint][]Tag)
	primaries := make([]PrimaryTag, 0)
	for _, tag := range tags {
		if tag.ParentID == nil {
			primaries = append(primaries, PrimaryTag{Tag: tag})
			continue
		}
		secondaries[*tag.ParentID] = append(secondaries[*tag.ParentID], tag)
	}

	sort.Slice(primaries, func(i, j int) bool { return primaries[i].ID < primaries[j].ID })
	for i := range primaries {
		children := secondaries[primaries[i].ID]
		sort.Slice(children, func(a, b int) bool {
			if children[a].Priority != children[b].Priority {
				return children[a].Priority > children[b].Priority
			}
			return children[a].ID < children[b].ID
		})
		primaries[i].Secondaries = children
	}

	return primaries, nil
}

// IsPrimary reports whether name is a known primary tag.
func (s *Service) IsPrimary(ctx context.Context, name string) (bool, error) {
	tags, err := s.repo.ListAll(ctx)
	if err != nil {
		return false, err
	}
	for _, tag := range tags {
		if tag.Name == name && tag.ParentID == nil {
			return true, nil
		}
	}
	return false, nil
}

// SecondaryNames returns the names of the secondaries under the given
// primary tag.
func (s *Service) SecondaryNames(ctx context.Context, primary string) ([]string, error) {
	tags, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var primaryID *uint
	for _, tag := range tags {
		if tag.Name == primary && tag.ParentID == nil {
			id := tag.ID
			primaryID = &id
			break
		}
	}
	if primaryID == nil {
		return nil, nil
	}

	names := make([]string, 0)
	for _, tag := range tags {
		if tag.ParentID != nil && *tag.ParentID == *primaryID {
			names = append(names, tag.Name)
		}
	}
	return names, nil
}

// FilterSecondaries returns the subset of names that are secondaries of the
// given primary, deduplicated, in submission order. Everything else is
// dropped silently.
func (s *Service) FilterSecondaries(ctx context.Context, primary string, names []string) ([]string, error) {
	valid, err := s.SecondaryNames(ctx, primary)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(valid))
	for _, name := range valid {
		known[name] = true
	}

	kept := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !known[name] || seen[name] {
			continue
		}
		seen[name] = true
		kept = append(kept, name)
	}
	return kept, nil
}
