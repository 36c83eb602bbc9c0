// Package psql provides PSQL storage service for the identity registry.

package psql

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"acs-toolkit/internal/config"
	storageErrors "acs-toolkit/internal/storage/errors"
	"acs-toolkit/internal/storage/modelstorage"
	"acs-toolkit/internal/syncutils"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog"
)

const (
	userIDKey     = "userID"
	schemaTimeout = 1000 * time.Millisecond
)

// Storage defines a new object and sets its attributes.
type Storage struct {
	mu        sync.Mutex
	cfg       *config.Config
	DB        *sql.DB
	log       *zerolog.Logger
	syncUtils *syncutils.SyncUtils
}

// NewStorage initializes a new Storage instance.
func NewStorage(cfg *config.Config, logger *zerolog.Logger, syncUtils *syncutils.SyncUtils) *Storage {
	logger.Debug().Msg("calling initializer of storage service")
	db, err := sql.Open("pgx", cfg.DB.DatabaseDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not open a DB connection")
	}
	st := Storage{
		cfg:       cfg,
		DB:        db,
		log:       logger,
		syncUtils: syncUtils,
	}
	logger.Debug().Msg("DB connection was established")

	st.syncUtils.Wg.Add(1)
	go func() {
		defer st.syncUtils.Wg.Done()
		<-st.syncUtils.Ctx.Done()
		if err := st.DB.Close(); err != nil {
			logger.Error().Err(err).Msg("could not close DB connection")
			return
		}
		logger.Debug().Msg("PSQL DB connection was closed")
	}()

	return &st
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

type prepareFunc func(query string) (*sql.Stmt, error)

// await runs fn under the storage lock and gives up as soon as ctx is done.
// fn keeps running after a timeout, so the statements it prepares are closed
// by the worker goroutine and fn's results must only be read on success.
func (s *Storage) await(ctx context.Context, operation, userID string, fn func(prepare prepareFunc) error) error {
	chanEr := make(chan error, 1)
	go func() {
		var stmts []*sql.Stmt
		defer func() {
			for _, stmt := range stmts {
				stmt.Close()
			}
		}()
		prepare := func(query string) (*sql.Stmt, error) {
			stmt, err := s.DB.PrepareContext(ctx, query)
			if err != nil {
				return nil, &storageErrors.StatementPSQLError{Err: err}
			}
			stmts = append(stmts, stmt)
			return stmt, nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		chanEr <- fn(prepare)
	}()

	select {
	case <-ctx.Done():
		s.log.Error().Err(ctx.Err()).Str(userIDKey, userID).Msgf("%s failed", operation)
		return &storageErrors.ContextTimeoutExceededError{Err: ctx.Err()}
	case methodErr := <-chanEr:
		if methodErr != nil {
			s.log.Error().Err(methodErr).Str(userIDKey, userID).Msgf("%s failed", operation)
			return methodErr
		}
		s.log.Info().Str(userIDKey, userID).Msgf("%s done", operation)
		return nil
	}
}

func (s *Storage) execSchema(queries []string) error {
	ctx, cancel := context.WithTimeout(s.syncUtils.Ctx, schemaTimeout)
	defer cancel()
	defer s.syncUtils.SyncCancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, query := range queries {
		if _, err := s.DB.ExecContext(ctx, query); err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
	}
	return nil
}

// DropAll drops the DB tables.
func (s *Storage) DropAll() error {
	s.log.Debug().Msg("calling `DropAll` method")
	return s.execSchema([]string{
		`DROP TABLE IF EXISTS token_issues;`,
		`DROP TABLE IF EXISTS identities;`,
	})
}

// Migrate creates the DB tables.
func (s *Storage) Migrate() error {
	s.log.Debug().Msg("calling `Migrate` method")
	return s.execSchema([]string{
		`CREATE TABLE IF NOT EXISTS identities (
			id                BIGSERIAL   NOT NULL UNIQUE,
			user_id           TEXT        NOT NULL UNIQUE,
			communication_id  TEXT        NOT NULL UNIQUE,
			created_at        TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS token_issues (
			id          BIGSERIAL   NOT NULL UNIQUE,
			user_id     TEXT        NOT NULL,
			scopes      TEXT        NOT NULL,
			expires_on  TIMESTAMPTZ NOT NULL,
			issued_at   TIMESTAMPTZ NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS token_issues_user_id_idx ON token_issues (user_id);`,
	})
}

// AddIdentity stores a user to communication identity mapping.
func (s *Storage) AddIdentity(ctx context.Context, identity modelstorage.Identity) error {
	s.log.Debug().Msg("calling `AddIdentity` method")
	createdAt := identity.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.await(ctx, "adding identity", identity.UserID, func(prepare prepareFunc) error {
		stmt, err := prepare("INSERT INTO identities (user_id, communication_id, created_at) VALUES ($1, $2, $3)")
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, identity.UserID, identity.CommunicationID, createdAt)
		if err != nil {
			if isUniqueViolation(err) {
				return &storageErrors.AlreadyExistsError{Err: err, ID: identity.UserID}
			}
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		return nil
	})
}

// GetIdentity retrieves the communication identity of a user.
func (s *Storage) GetIdentity(ctx context.Context, userID string) (modelstorage.Identity, error) {
	s.log.Debug().Msg("calling `GetIdentity` method")
	var identity modelstorage.Identity
	err := s.await(ctx, "getting identity", userID, func(prepare prepareFunc) error {
		stmt, err := prepare("SELECT user_id, communication_id, created_at FROM identities WHERE user_id = $1")
		if err != nil {
			return err
		}
		err = stmt.QueryRowContext(ctx, userID).Scan(&identity.UserID, &identity.CommunicationID, &identity.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return &storageErrors.NotFoundError{Err: err, ID: userID}
		}
		if err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		return nil
	})
	if err != nil {
		return modelstorage.Identity{}, err
	}
	return identity, nil
}

// DeleteIdentity removes a user mapping and its token history.
func (s *Storage) DeleteIdentity(ctx context.Context, userID string) error {
	s.log.Debug().Msg("calling `DeleteIdentity` method")
	return s.await(ctx, "removing identity", userID, func(prepare prepareFunc) error {
		deleteIdentityStmt, err := prepare("DELETE FROM identities WHERE user_id = $1")
		if err != nil {
			return err
		}
		deleteIssuesStmt, err := prepare("DELETE FROM token_issues WHERE user_id = $1")
		if err != nil {
			return err
		}
		result, err := deleteIdentityStmt.ExecContext(ctx, userID)
		if err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		if _, err := deleteIssuesStmt.ExecContext(ctx, userID); err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return &storageErrors.NotFoundError{ID: userID}
		}
		return nil
	})
}

// GetAllIdentities retrieves every stored identity.
func (s *Storage) GetAllIdentities(ctx context.Context) ([]modelstorage.Identity, error) {
	s.log.Debug().Msg("calling `GetAllIdentities` method")
	var identities []modelstorage.Identity
	err := s.await(ctx, "getting all identities", "", func(prepare prepareFunc) error {
		stmt, err := prepare("SELECT user_id, communication_id, created_at FROM identities ORDER BY created_at")
		if err != nil {
			return err
		}
		rows, err := stmt.QueryContext(ctx)
		if err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		defer rows.Close()

		for rows.Next() {
			var identity modelstorage.Identity
			if err := rows.Scan(&identity.UserID, &identity.CommunicationID, &identity.CreatedAt); err != nil {
				return &storageErrors.ScanningPSQLError{Err: err}
			}
			identities = append(identities, identity)
		}
		if err := rows.Err(); err != nil {
			return &storageErrors.ScanningPSQLError{Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return identities, nil
}

// RecordTokenIssue appends a token issue to the user's history.
func (s *Storage) RecordTokenIssue(ctx context.Context, issue modelstorage.TokenIssue) error {
	s.log.Debug().Msg("calling `RecordTokenIssue` method")
	issuedAt := issue.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	return s.await(ctx, "recording token issue", issue.UserID, func(prepare prepareFunc) error {
		stmt, err := prepare("INSERT INTO token_issues (user_id, scopes, expires_on, issued_at) VALUES ($1, $2, $3, $4)")
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, issue.UserID, issue.Scopes, issue.ExpiresOn, issuedAt); err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		return nil
	})
}

// GetLastTokenExpiry returns the expiry of the most recently issued token of a user.
func (s *Storage) GetLastTokenExpiry(ctx context.Context, userID string) (time.Time, error) {
	s.log.Debug().Msg("calling `GetLastTokenExpiry` method")
	var expiresOn time.Time
	err := s.await(ctx, "getting last token expiry", userID, func(prepare prepareFunc) error {
		stmt, err := prepare("SELECT expires_on FROM token_issues WHERE user_id = $1 ORDER BY issued_at DESC LIMIT 1")
		if err != nil {
			return err
		}
		err = stmt.QueryRowContext(ctx, userID).Scan(&expiresOn)
		if errors.Is(err, sql.ErrNoRows) {
			return &storageErrors.NotFoundError{Err: err, ID: userID}
		}
		if err != nil {
			return &storageErrors.ExecutionPSQLError{Err: err}
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return expiresOn, nil
}
