package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"traininglog/api/internal/models"
	"traininglog/api/internal/repository"
)

const valueField = "value"

// SessionTypeService keeps value unique per owner. The pre-insert lookup
// answers the common case; the store's unique index settles concurrent
// creates.
type SessionTypeService struct {
	types repository.Collection[models.SessionType]
	log   zerolog.Logger
}

func NewSessionTypeService(types repository.Collection[models.SessionType], log zerolog.Logger) *SessionTypeService {
	return &SessionTypeService{
		types: types,
		log:   log,
	}
}

func (s *SessionTypeService) List(ctx context.Context, email string) ([]models.SessionTypeView, error) {
	records, err := s.types.Find(ctx, repository.ByOwner(email))
	if err != nil {
		return nil, fmt.Errorf("list session types: %w", err)
	}

	views := make([]models.SessionTypeView, 0, len(records))
	for _, record := range records {
		views = append(views, sessionTypeView(record))
	}
	return views, nil
}

func (s *SessionTypeService) Create(ctx context.Context, email, value, label string) (models.SessionTypeView, error) {
	if value == "" || label == "" {
		return models.SessionTypeView{}, ErrMissingField
	}

	existing, err := s.types.Find(ctx, repository.ByOwnerAndField(email, valueField, value))
	if err != nil {
		return models.SessionTypeView{}, fmt.Errorf("lookup session type: %w", err)
	}
	if len(existing) > 0 {
		return models.SessionTypeView{}, ErrDuplicateValue
	}

	record, err := s.types.Insert(ctx, email, models.SessionType{Value: value, Label: label})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.log.Debug().Str("email", email).Str("value", value).Msg("concurrent session type create rejected by store")
			return models.SessionTypeView{}, ErrDuplicateValue
		}
		return models.SessionTypeView{}, fmt.Errorf("create session type: %w", err)
	}
	return sessionTypeView(record), nil
}

func (s *SessionTypeService) Update(ctx context.Context, email, id, value, label string) (models.SessionTypeView, error) {
	if value == "" || label == "" {
		return models.SessionTypeView{}, ErrMissingField
	}

	doc := models.SessionType{Value: value, Label: label}
	if err := s.types.Update(ctx, repository.ByOwnerAndID(email, id), doc); err != nil {
		return models.SessionTypeView{}, mapStoreError("update session type", err)
	}
	return models.SessionTypeView{ID: id, Value: value, Label: label}, nil
}

func (s *SessionTypeService) Delete(ctx context.Context, email, id string) error {
	if id == "" {
		return ErrNotFound
	}
	removed, err := s.types.Delete(ctx, repository.ByOwnerAndID(email, id))
	if err != nil {
		return fmt.Errorf("delete session type: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func sessionTypeView(record repository.Record[models.SessionType]) models.SessionTypeView {
	return models.SessionTypeView{
		ID:    record.ID,
		Value: record.Doc.Value,
		Label: record.Doc.Label,
	}
}
