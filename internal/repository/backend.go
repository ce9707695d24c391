package repository

import (
	"context"
	"fmt"
	"net/url"

	"traininglog/api/internal/config"
	"traininglog/api/internal/database"
	"traininglog/api/internal/models"
)

var (
	UsersSchema        = Schema{Name: "users", UniqueOwner: true}
	CalendarSchema     = Schema{Name: "calendar"}
	ExercisesSchema    = Schema{Name: "exercises"}
	SessionTypesSchema = Schema{Name: "session_types", UniqueField: "value"}
)

// Backend bundles the collections of one document store.
type Backend struct {
	Kind         string
	Users        Collection[models.User]
	Calendar     Collection[models.CalendarSession]
	Exercises    Collection[models.Exercise]
	SessionTypes Collection[models.SessionType]

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Owned lists the collections whose records belong to a user.
func (b *Backend) Owned() map[string]Pruner {
	return map[string]Pruner{
		CalendarSchema.Name:     b.Calendar,
		ExercisesSchema.Name:    b.Exercises,
		SessionTypesSchema.Name: b.SessionTypes,
	}
}

func NewMemoryBackend() *Backend {
	return &Backend{
		Kind:         "memory",
		Users:        NewMemoryCollection[models.User](UsersSchema),
		Calendar:     NewMemoryCollection[models.CalendarSession](CalendarSchema),
		Exercises:    NewMemoryCollection[models.Exercise](ExercisesSchema),
		SessionTypes: NewMemoryCollection[models.SessionType](SessionTypesSchema),
	}
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// Open connects to the store named by cfg.Store.URI and prepares its
// collections.
func Open(ctx context.Context, cfg *config.AppConfig) (*Backend, error) {
	u, err := url.Parse(cfg.Store.URI)
	if err != nil {
		return nil, fmt.Errorf("parse store uri: %w", err)
	}

	var backend *Backend
	switch u.Scheme {
	case "memory":
		return NewMemoryBackend(), nil
	case "postgres", "postgresql":
		backend, err = openPostgres(ctx, cfg)
	case "mongodb", "mongodb+srv":
		backend, err = openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	for _, c := range []any{backend.Users, backend.Calendar, backend.Exercises, backend.SessionTypes} {
		if e, ok := c.(schemaEnsurer); ok {
			if err := e.EnsureSchema(ctx); err != nil {
				_ = backend.Close(context.Background())
				return nil, err
			}
		}
	}
	return backend, nil
}

func openPostgres(ctx context.Context, cfg *config.AppConfig) (*Backend, error) {
	pool, err := database.NewPostgresPool(ctx, cfg.Store.URI, cfg.Postgres, cfg.Store.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Kind:         "postgres",
		Users:        NewPostgresCollection[models.User](pool, UsersSchema),
		Calendar:     NewPostgresCollection[models.CalendarSession](pool, CalendarSchema),
		Exercises:    NewPostgresCollection[models.Exercise](pool, ExercisesSchema),
		SessionTypes: NewPostgresCollection[models.SessionType](pool, SessionTypesSchema),
		ping:         pool.Ping,
		close: func(context.Context) error {
			pool.Close()
			return nil
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.AppConfig) (*Backend, error) {
	client, err := database.NewMongoClient(ctx, cfg.Store.URI, cfg.Store.ConnectTimeout)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Store.Database)

	return &Backend{
		Kind:         "mongo",
		Users:        NewMongoCollection[models.User](db, UsersSchema),
		Calendar:     NewMongoCollection[models.CalendarSession](db, CalendarSchema),
		Exercises:    NewMongoCollection[models.Exercise](db, ExercisesSchema),
		SessionTypes: NewMongoCollection[models.SessionType](db, SessionTypesSchema),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}
