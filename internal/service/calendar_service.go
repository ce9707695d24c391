package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"traininglog/api/internal/models"
	"traininglog/api/internal/repository"
)

const dateField = "date"

// CalendarService addresses sessions by (date, index). The index is the rank
// of a session among the owner's sessions on that date in creation order,
// resolved on every call; it is never stored.
type CalendarService struct {
	sessions repository.Collection[models.CalendarSession]
	log      zerolog.Logger
}

func NewCalendarService(sessions repository.Collection[models.CalendarSession], log zerolog.Logger) *CalendarService {
	return &CalendarService{
		sessions: sessions,
		log:      log,
	}
}

type SessionInput struct {
	Type       string
	Exercises  []any
	Commentary string
}

func (in SessionInput) document(date string) models.CalendarSession {
	exercises := in.Exercises
	if exercises == nil {
		exercises = []any{}
	}
	return models.CalendarSession{
		Date:       date,
		Type:       in.Type,
		Exercises:  exercises,
		Commentary: in.Commentary,
	}
}

func (s *CalendarService) ListAll(ctx context.Context, email string) (map[string][]models.SessionEntry, error) {
	records, err := s.sessions.Find(ctx, repository.ByOwner(email))
	if err != nil {
		return nil, fmt.Errorf("list calendar: %w", err)
	}

	calendar := make(map[string][]models.SessionEntry)
	for _, record := range records {
		calendar[record.Doc.Date] = append(calendar[record.Doc.Date], record.Doc.Entry())
	}
	return calendar, nil
}

func (s *CalendarService) ListDay(ctx context.Context, email, date string) ([]models.SessionEntry, error) {
	records, err := s.day(ctx, email, date)
	if err != nil {
		return nil, err
	}

	entries := make([]models.SessionEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.Doc.Entry())
	}
	return entries, nil
}

func (s *CalendarService) Add(ctx context.Context, email, date string, input SessionInput) error {
	if _, err := s.sessions.Insert(ctx, email, input.document(date)); err != nil {
		return fmt.Errorf("add session: %w", err)
	}
	return nil
}

func (s *CalendarService) Update(ctx context.Context, email, date string, index int, input SessionInput) error {
	record, err := s.resolve(ctx, email, date, index)
	if err != nil {
		return err
	}

	// date and owner come from the stored record, not the request
	err = s.sessions.Update(ctx, repository.ByOwnerAndID(email, record.ID), input.document(record.Doc.Date))
	if err != nil {
		return mapStoreError("update session", err)
	}
	return nil
}

func (s *CalendarService) Delete(ctx context.Context, email, date string, index int) error {
	record, err := s.resolve(ctx, email, date, index)
	if err != nil {
		return err
	}

	removed, err := s.sessions.Delete(ctx, repository.ByOwnerAndID(email, record.ID))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CalendarService) day(ctx context.Context, email, date string) ([]repository.Record[models.CalendarSession], error) {
	records, err := s.sessions.Find(ctx, repository.ByOwnerAndField(email, dateField, date))
	if err != nil {
		return nil, fmt.Errorf("list day: %w", err)
	}
	return records, nil
}

func (s *CalendarService) resolve(ctx context.Context, email, date string, index int) (repository.Record[models.CalendarSession], error) {
	records, err := s.day(ctx, email, date)
	if err != nil {
		return repository.Record[models.CalendarSession]{}, err
	}
	if index < 0 || index >= len(records) {
		return repository.Record[models.CalendarSession]{}, ErrNotFound
	}
	return records[index], nil
}
