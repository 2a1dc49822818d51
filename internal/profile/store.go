// internal/profile/store.go

// Package profile loads and serves company profiles: the per-company form
// URLs, selector hints and custom scripts the engine is steered by.
package profile

import (
	"errors"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/hfadhel/tawseel-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnknownProfile is returned when a company id is not in the store.
var ErrUnknownProfile = errors.New("profile: unknown company id")

// Store holds the loaded profiles, keyed by company id.
type Store struct {
	profiles []schemas.CompanyProfile
	byID     map[string]schemas.CompanyProfile
}

// Load reads a JSON array of company profiles from disk, validating each
// profile's one-of invariant and rejecting duplicate ids.
func Load(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}

	var profiles []schemas.CompanyProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}

	store := &Store{
		profiles: profiles,
		byID:     make(map[string]schemas.CompanyProfile, len(profiles)),
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := store.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		store.byID[p.ID] = p
	}

	logger.Named("profile").Debug("Loaded company profiles.",
		zap.String("path", path),
		zap.Int("count", len(profiles)))
	return store, nil
}

// Get returns the profile for a company id.
func (s *Store) Get(id string) (schemas.CompanyProfile, error) {
	p, ok := s.byID[id]
	if !ok {
		return schemas.CompanyProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, id)
	}
	return p, nil
}

// All returns the profiles in file order.
func (s *Store) All() []schemas.CompanyProfile {
	return s.profiles
}
