package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"traininglog/api/internal/repository"
	"traininglog/api/internal/security"
)

var testHashParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

type fixture struct {
	backend   *repository.Backend
	auth      *AuthService
	calendar  *CalendarService
	exercises *ExerciseService
	types     *SessionTypeService
	tokens    *security.TokenIssuer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := zerolog.Nop()
	backend := repository.NewMemoryBackend()
	tokens := security.NewTokenIssuer("test-secret", time.Hour)

	return fixture{
		backend:   backend,
		tokens:    tokens,
		auth:      NewAuthService(backend.Users, tokens, log, WithHashParams(testHashParams)),
		calendar:  NewCalendarService(backend.Calendar, log),
		exercises: NewExerciseService(backend.Exercises, log),
		types:     NewSessionTypeService(backend.SessionTypes, log),
	}
}
