package service

import (
	"errors"
	"fmt"

	"traininglog/api/internal/repository"
)

func mapStoreError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateValue
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
