package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"traininglog/api/internal/models"
	"traininglog/api/internal/repository"
)

type ExerciseService struct {
	exercises repository.Collection[models.Exercise]
	log       zerolog.Logger
}

func NewExerciseService(exercises repository.Collection[models.Exercise], log zerolog.Logger) *ExerciseService {
	return &ExerciseService{
		exercises: exercises,
		log:       log,
	}
}

func (s *ExerciseService) List(ctx context.Context, email string) ([]models.ExerciseView, error) {
	records, err := s.exercises.Find(ctx, repository.ByOwner(email))
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	views := make([]models.ExerciseView, 0, len(records))
	for _, record := range records {
		views = append(views, exerciseView(record))
	}
	return views, nil
}

func (s *ExerciseService) Create(ctx context.Context, email, name, exerciseType string) (models.ExerciseView, error) {
	if name == "" || exerciseType == "" {
		return models.ExerciseView{}, ErrMissingField
	}

	record, err := s.exercises.Insert(ctx, email, models.Exercise{Name: name, Type: exerciseType})
	if err != nil {
		return models.ExerciseView{}, fmt.Errorf("create exercise: %w", err)
	}
	return exerciseView(record), nil
}

func (s *ExerciseService) Update(ctx context.Context, email, id, name, exerciseType string) (models.ExerciseView, error) {
	if name == "" || exerciseType == "" {
		return models.ExerciseView{}, ErrMissingField
	}

	doc := models.Exercise{Name: name, Type: exerciseType}
	if err := s.exercises.Update(ctx, repository.ByOwnerAndID(email, id), doc); err != nil {
		return models.ExerciseView{}, mapStoreError("update exercise", err)
	}
	return models.ExerciseView{ID: id, Name: name, Type: exerciseType}, nil
}

func (s *ExerciseService) Delete(ctx context.Context, email, id string) error {
	if id == "" {
		return ErrNotFound
	}
	removed, err := s.exercises.Delete(ctx, repository.ByOwnerAndID(email, id))
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}

func exerciseView(record repository.Record[models.Exercise]) models.ExerciseView {
	return models.ExerciseView{
		ID:   record.ID,
		Name: record.Doc.Name,
		Type: record.Doc.Type,
	}
}
