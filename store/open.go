package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"studyload/config"
	"studyload/groups"
	"studyload/models"
	"studyload/notify"
	"studyload/tasks"
	"studyload/utils"
	"studyload/workload"
)

// Backend is everything the server and CLI need from a store.
type Backend interface {
	workload.TaskSource
	tasks.Repository
	groups.Repository
	notify.Recipients

	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open connects to the store selected by cfg.DBDriver.
func Open(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := utils.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool), nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
