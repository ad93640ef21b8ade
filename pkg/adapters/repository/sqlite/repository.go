package sqlite

import (
	"context"
	"database/sql"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/go-biolink/pkg/core/domain"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);

	CREATE TABLE IF NOT EXISTS profiles (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL DEFAULT '',
		avatar_url TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(id) REFERENCES accounts(id)
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username);

	CREATE TABLE IF NOT EXISTS links (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES profiles(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_links_user_sort ON links(user_id, sort_order);
	`
	_, err := db.Exec(query)
	return err
}

// isUniqueViolation covers both the modernc and libsql driver messages.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// --- accounts ---

func (r *SQLiteRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	query := `INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, account.ID, account.Email, account.PasswordHash, account.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *SQLiteRepository) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *SQLiteRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// --- profiles ---

func (r *SQLiteRepository) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `INSERT INTO profiles (id, username, full_name, avatar_url, updated_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, profile.ID, profile.Username, profile.FullName, nullable(profile.AvatarURL), profile.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *SQLiteRepository) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT id, username, full_name, avatar_url, updated_at FROM profiles WHERE id = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `SELECT id, username, full_name, avatar_url, updated_at FROM profiles WHERE username = ?`
	return r.scanProfile(r.db.QueryRowContext(ctx, query, username))
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	query := `UPDATE profiles SET username = ?, full_name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, profile.Username, profile.FullName, nullable(profile.AvatarURL), profile.UpdatedAt, profile.ID)
	if isUniqueViolation(err) {
		// The UNIQUE index is the authoritative guard against a
		// concurrent claim of the same username.
		return domain.ErrConflict
	}
	return err
}

func (r *SQLiteRepository) scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	var avatar sql.NullString

	err := row.Scan(&profile.ID, &profile.Username, &profile.FullName, &avatar, &profile.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if avatar.Valid {
		profile.AvatarURL = &avatar.String
	}
	return &profile, nil
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// --- links ---

const linkColumns = `id, user_id, title, url, sort_order, is_active, created_at, updated_at`

func (r *SQLiteRepository) ListLinks(ctx context.Context, ownerID string) ([]domain.Link, error) {
	// Secondary sort by id makes the order deterministic even if a race
	// ever produced equal sort keys.
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = ? ORDER BY sort_order ASC, id ASC`
	return r.queryLinks(ctx, query, ownerID)
}

func (r *SQLiteRepository) ListActiveLinks(ctx context.Context, ownerID string) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = ? AND is_active = 1 ORDER BY sort_order ASC, id ASC`
	return r.queryLinks(ctx, query, ownerID)
}

func (r *SQLiteRepository) queryLinks(ctx context.Context, query string, args ...interface{}) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		var link domain.Link
		if err := rows.Scan(&link.ID, &link.UserID, &link.Title, &link.URL, &link.SortOrder, &link.IsActive, &link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) GetLink(ctx context.Context, ownerID, id string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ? AND user_id = ?`

	var link domain.Link
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&link.ID, &link.UserID, &link.Title, &link.URL, &link.SortOrder, &link.IsActive, &link.CreatedAt, &link.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *SQLiteRepository) CreateLink(ctx context.Context, link *domain.Link) error {
	query := `INSERT INTO links (id, user_id, title, url, sort_order, is_active, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, link.ID, link.UserID, link.Title, link.URL, link.SortOrder, link.IsActive, link.CreatedAt, link.UpdatedAt)
	return err
}

func (r *SQLiteRepository) NextSortOrder(ctx context.Context, ownerID string) (int, error) {
	query := `SELECT COALESCE(MAX(sort_order), -1) + 1 FROM links WHERE user_id = ?`

	var next int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *SQLiteRepository) UpdateLink(ctx context.Context, link *domain.Link) error {
	query := `UPDATE links SET title = ?, url = ?, is_active = ?, updated_at = ? WHERE id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query, link.Title, link.URL, link.IsActive, link.UpdatedAt, link.ID, link.UserID)
	return err
}

func (r *SQLiteRepository) UpdateSortOrder(ctx context.Context, ownerID, id string, sortOrder int) error {
	query := `UPDATE links SET sort_order = ? WHERE id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query, sortOrder, id, ownerID)
	return err
}

func (r *SQLiteRepository) DeleteLink(ctx context.Context, ownerID, id string) error {
	query := `DELETE FROM links WHERE id = ? AND user_id = ?`

	_, err := r.db.ExecContext(ctx, query, id, ownerID)
	return err
}

// Dump returns every profile with all of its links, for the export tool.
func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.PublicProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, full_name, avatar_url, updated_at FROM profiles ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PublicProfile
	for rows.Next() {
		var profile domain.Profile
		var avatar sql.NullString
		if err := rows.Scan(&profile.ID, &profile.Username, &profile.FullName, &avatar, &profile.UpdatedAt); err != nil {
			return nil, err
		}
		if avatar.Valid {
			profile.AvatarURL = &avatar.String
		}
		out = append(out, domain.PublicProfile{Profile: profile})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		links, err := r.ListLinks(ctx, out[i].Profile.ID)
		if err != nil {
			return nil, err
		}
		out[i].Links = links
	}
	return out, nil
}
