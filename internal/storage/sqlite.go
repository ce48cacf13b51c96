package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/stark-wallet/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a user does not exist
var ErrNotFound = errors.New("user not found")

// SQLiteStore keeps wallet owners and their key records, and tracks which
// user the current session belongs to. Records are stored exactly as
// produced by wallet creation; this layer never sees plaintext keys.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.RWMutex
	current string // user id of the current session
}

// NewSQLiteStore opens (or creates) the database at path. ":memory:" gives a
// throwaway database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	// one connection: an in-memory database is per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL DEFAULT '',
		old_address TEXT NOT NULL DEFAULT '',
		public_key TEXT NOT NULL,
		salt TEXT NOT NULL,
		iv TEXT NOT NULL,
		encrypted_private_key TEXT NOT NULL,
		backup_ciphertext TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_users_address ON users(address);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser stores a new user. An empty ID is filled with a fresh UUID.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, address, old_address, public_key, salt, iv, encrypted_private_key, backup_ciphertext, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Address, u.OldAddress, u.PublicKey,
		u.Record.Salt, u.Record.IV, u.Record.EncryptedPrivateKey, u.Record.BackupCiphertext,
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser loads a user by id
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var (
		u                model.User
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, address, old_address, public_key, salt, iv, encrypted_private_key, backup_ciphertext, created_at, updated_at
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Address, &u.OldAddress, &u.PublicKey,
		&u.Record.Salt, &u.Record.IV, &u.Record.EncryptedPrivateKey, &u.Record.BackupCiphertext,
		&created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.UpdatedAt = time.Unix(updated, 0).UTC()
	return &u, nil
}

// UpdateRecord replaces the password-protected part of a user's record.
// The backup ciphertext is not touched.
func (s *SQLiteStore) UpdateRecord(ctx context.Context, id string, rec model.WalletKeyRecord) error {
	return s.update(ctx, `UPDATE users SET salt = ?, iv = ?, encrypted_private_key = ?, updated_at = ? WHERE id = ?`,
		rec.Salt, rec.IV, rec.EncryptedPrivateKey, time.Now().Unix(), id)
}

// SetAddresses records the deployed account address and, after a migration,
// the pre-migration one
func (s *SQLiteStore) SetAddresses(ctx context.Context, id, address, oldAddress string) error {
	return s.update(ctx, `UPDATE users SET address = ?, old_address = ?, updated_at = ? WHERE id = ?`,
		address, oldAddress, time.Now().Unix(), id)
}

func (s *SQLiteStore) update(ctx context.Context, query string, args ...interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentUser binds the session to a user id ("" signs out)
func (s *SQLiteStore) SetCurrentUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
}

// CurrentUserID returns the id bound to the session
func (s *SQLiteStore) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// CurrentUser returns the session's user, or nil when nobody is signed in
func (s *SQLiteStore) CurrentUser(ctx context.Context) (*model.CurrentUser, error) {
	id := s.CurrentUserID()
	if id == "" {
		return nil, nil
	}
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.CurrentUser{ID: u.ID, Address: u.Address, OldAddress: u.OldAddress}, nil
}
