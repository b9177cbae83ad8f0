// Package store persists the marketplace through gorm. Every operation is a
// single statement or a single transaction; line items are rows keyed by
// their own identifier so one item can change without touching its siblings.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinedash-server/models"
	"dinedash-server/statemachine"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrAlreadyClaimed    = errors.New("delivery already claimed")
	ErrNotAssigned       = errors.New("delivery not assigned to this rider")
	ErrNoRider           = errors.New("no rider assigned")
	ErrInvalidTransition = statemachine.ErrInvalidTransition
)

// TransitionError reports a rejected status change together with the
// item's current status.
type TransitionError struct {
	ItemID  string
	Current models.LineStatus
	Err     error
}

func (e *TransitionError) Error() string { return e.Err.Error() }
func (e *TransitionError) Unwrap() error { return e.Err }

type Store struct {
	db *gorm.DB
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects to driver/dsn and configures the pool.
func Open(driver, dsn string) (*Store, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: get sql.DB: %w", err)
	}
	if driver == "sqlite" {
		// sqlite allows one writer; a single connection also keeps an
		// in-memory database alive for the lifetime of the store.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return New(db), nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q (supported: sqlite, postgres, mysql)", driver)
	}
}

// Migrate creates or updates every table.
func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(
		&models.Order{},
		&models.LineItem{},
		&models.PendingOrder{},
		&models.Restaurant{},
		&models.Provider{},
		&models.Ingredient{},
		&models.Food{},
		&models.Review{},
		&models.RoleRecord{},
		&models.Address{},
		&models.EmailVerification{},
		&models.PartnerRequest{},
		&models.RiderRequest{},
		&models.Rider{},
	)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound turns gorm's record-not-found into ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return err
}
