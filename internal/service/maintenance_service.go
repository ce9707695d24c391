package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"traininglog/api/internal/models"
	"traininglog/api/internal/repository"
)

// MaintenanceService removes records left behind by users that no longer
// exist. Nothing cascades on user removal, so this is the only cleanup.
type MaintenanceService struct {
	users repository.Collection[models.User]
	owned map[string]repository.Pruner
	log   zerolog.Logger
}

func NewMaintenanceService(users repository.Collection[models.User], owned map[string]repository.Pruner, log zerolog.Logger) *MaintenanceService {
	return &MaintenanceService{
		users: users,
		owned: owned,
		log:   log,
	}
}

func (s *MaintenanceService) SweepOrphans(ctx context.Context) (int64, error) {
	known, err := s.users.Owners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	users := make(map[string]struct{}, len(known))
	for _, email := range known {
		users[email] = struct{}{}
	}

	var total int64
	for name, collection := range s.owned {
		owners, err := collection.Owners(ctx)
		if err != nil {
			return total, fmt.Errorf("list owners of %s: %w", name, err)
		}
		for _, owner := range owners {
			if _, ok := users[owner]; ok {
				continue
			}
			// The owner may have registered after the user list was read.
			live, err := s.userExists(ctx, owner)
			if err != nil {
				return total, err
			}
			if live {
				users[owner] = struct{}{}
				continue
			}
			removed, err := collection.Delete(ctx, repository.ByOwner(owner))
			if err != nil {
				return total, fmt.Errorf("sweep %s for %s: %w", name, owner, err)
			}
			total += removed
			s.log.Info().
				Str("collection", name).
				Str("owner", owner).
				Int64("removed", removed).
				Msg("orphaned records removed")
		}
	}
	return total, nil
}

func (s *MaintenanceService) userExists(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindOne(ctx, repository.ByOwner(email))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("lookup user %s: %w", email, err)
	}
}
