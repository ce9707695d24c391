package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"traininglog/api/internal/ids"
	"traininglog/api/internal/models"
)

// ObjectStore receives export snapshots and hands out time-limited links.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Snapshot struct {
	Email        string                           `json:"email"`
	ExportedAt   time.Time                        `json:"exported_at"`
	Calendar     map[string][]models.SessionEntry `json:"calendar"`
	Exercises    []models.ExerciseView            `json:"exercises"`
	SessionTypes []models.SessionTypeView         `json:"session_types"`
}

type ExportResult struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

type ExportService struct {
	calendar  *CalendarService
	exercises *ExerciseService
	types     *SessionTypeService
	store     ObjectStore
	linkTTL   time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewExportService accepts a nil store; Export then reports ErrExportDisabled.
func NewExportService(
	calendar *CalendarService,
	exercises *ExerciseService,
	types *SessionTypeService,
	store ObjectStore,
	linkTTL time.Duration,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{
		calendar:  calendar,
		exercises: exercises,
		types:     types,
		store:     store,
		linkTTL:   linkTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *ExportService) Snapshot(ctx context.Context, email string) (Snapshot, error) {
	calendar, err := s.calendar.ListAll(ctx, email)
	if err != nil {
		return Snapshot{}, err
	}
	exercises, err := s.exercises.List(ctx, email)
	if err != nil {
		return Snapshot{}, err
	}
	types, err := s.types.List(ctx, email)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Email:        email,
		ExportedAt:   s.now().UTC(),
		Calendar:     calendar,
		Exercises:    exercises,
		SessionTypes: types,
	}, nil
}

func (s *ExportService) Export(ctx context.Context, email string) (ExportResult, error) {
	if s.store == nil {
		return ExportResult{}, ErrExportDisabled
	}

	snapshot, err := s.Snapshot(ctx, email)
	if err != nil {
		return ExportResult{}, err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return ExportResult{}, fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", url.PathEscape(email), ids.New())
	if err := s.store.Put(ctx, key, data, "application/json"); err != nil {
		return ExportResult{}, fmt.Errorf("upload snapshot: %w", err)
	}

	link, err := s.store.PresignGet(ctx, key, s.linkTTL)
	if err != nil {
		return ExportResult{}, fmt.Errorf("presign snapshot: %w", err)
	}

	s.log.Info().Str("email", email).Str("key", key).Int("bytes", len(data)).Msg("export uploaded")

	return ExportResult{
		Key:       key,
		URL:       link,
		ExpiresAt: snapshot.ExportedAt.Add(s.linkTTL),
	}, nil
}
