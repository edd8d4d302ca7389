package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/echoscript/backend/internal/auth"
	"github.com/echoscript/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id INTEGER NOT NULL,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (team_id) REFERENCES teams(id)
	);

	CREATE TABLE IF NOT EXISTS transcriptions (
		id TEXT PRIMARY KEY,
		team_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		text TEXT NOT NULL,
		segments TEXT NOT NULL DEFAULT '[]',
		duration INTEGER NOT NULL DEFAULT 0,
		language TEXT NOT NULL DEFAULT '',
		file_type TEXT NOT NULL DEFAULT '',
		file_size INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'complete',
		error_log TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (team_id) REFERENCES teams(id),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);
	CREATE INDEX IF NOT EXISTS idx_transcriptions_team ON transcriptions(team_id, created_at);

	CREATE TABLE IF NOT EXISTS playback_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		transcription_id TEXT NOT NULL,
		position REAL NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (transcription_id) REFERENCES transcriptions(id),
		UNIQUE(user_id, transcription_id)
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := d.db.Exec(schema)
	return err
}

// EnsureTeam returns the id of the named team, creating it if missing.
func (d *Database) EnsureTeam(name string) (int64, error) {
	var id int64
	err := d.db.QueryRow("SELECT id FROM teams WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	result, err := d.db.Exec("INSERT INTO teams (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// EnsureAdmin creates the bootstrap admin user if no admin exists.
func (d *Database) EnsureAdmin(teamID int64, username, password string) error {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'admin'").Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		"INSERT INTO users (team_id, username, password, role) VALUES (?, ?, ?, 'admin')",
		teamID, username, hash,
	)
	return err
}

func (d *Database) GetUserByUsername(username string) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, team_id, username, password, role, created_at, updated_at FROM users WHERE username = ?",
		username,
	).Scan(&u.ID, &u.TeamID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Database) GetUserByID(id int64) (*models.User, error) {
	u := &models.User{}
	err := d.db.QueryRow(
		"SELECT id, team_id, username, password, role, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.TeamID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser adds a user to a team. Role must be admin or member.
func (d *Database) CreateUser(teamID int64, username, password, role string) (int64, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}
	result, err := d.db.Exec(
		"INSERT INTO users (team_id, username, password, role) VALUES (?, ?, ?, ?)",
		teamID, username, hash, role,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *Database) ListUsers(teamID int64) ([]*models.User, error) {
	rows, err := d.db.Query(
		"SELECT id, team_id, username, password, role, created_at, updated_at FROM users WHERE team_id = ? ORDER BY username ASC",
		teamID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.TeamID, &u.Username, &u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (d *Database) DeleteUser(id int64) error {
	_, err := d.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// CreateTranscription persists a finished submission. Records are written
// once and never updated.
func (d *Database) CreateTranscription(rec *models.Transcription) error {
	segments, err := json.Marshal(rec.Segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var errorLog sql.NullString
	if rec.ErrorLog != "" {
		errorLog = sql.NullString{String: rec.ErrorLog, Valid: true}
	}

	_, err = d.db.Exec(`
		INSERT INTO transcriptions (id, team_id, user_id, file_name, text, segments, duration, language, file_type, file_size, status, error_log, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TeamID, rec.UserID, rec.FileName, rec.Text, string(segments),
		rec.Duration, rec.Language, rec.FileType, rec.FileSize, rec.Status, errorLog, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transcription: %w", err)
	}
	return nil
}

// ListTranscriptions returns a team's records newest first, without the full
// text and segment payloads. Use GetTranscription for one record's content.
func (d *Database) ListTranscriptions(teamID int64) ([]*models.Transcription, error) {
	rows, err := d.db.Query(`
		SELECT id, team_id, user_id, file_name, duration, language, file_type, file_size, status, error_log, created_at
		FROM transcriptions WHERE team_id = ? ORDER BY created_at DESC`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTranscriptionSummaries(rows)
}

// GetTranscription returns one record with its full text and segments.
// Lookups are team-scoped so users cannot read another team's records.
func (d *Database) GetTranscription(id string, teamID int64) (*models.Transcription, error) {
	rec := &models.Transcription{}
	var segments string
	var errorLog sql.NullString
	err := d.db.QueryRow(`
		SELECT id, team_id, user_id, file_name, text, segments, duration, language, file_type, file_size, status, error_log, created_at
		FROM transcriptions WHERE id = ? AND team_id = ?`, id, teamID,
	).Scan(&rec.ID, &rec.TeamID, &rec.UserID, &rec.FileName, &rec.Text, &segments,
		&rec.Duration, &rec.Language, &rec.FileType, &rec.FileSize, &rec.Status, &errorLog, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.ErrorLog = errorLog.String
	if err := json.Unmarshal([]byte(segments), &rec.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	return rec, nil
}

func (d *Database) DeleteTranscription(id string, teamID int64) error {
	if _, err := d.db.Exec("DELETE FROM playback_history WHERE transcription_id = ?", id); err != nil {
		log.Printf("[db] failed to clear playback history for %s: %v", id, err)
	}
	result, err := d.db.Exec("DELETE FROM transcriptions WHERE id = ? AND team_id = ?", id, teamID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SearchTranscriptions matches a query against file names and transcript text.
func (d *Database) SearchTranscriptions(teamID int64, query string) ([]*models.Transcription, error) {
	pattern := "%" + query + "%"
	rows, err := d.db.Query(`
		SELECT id, team_id, user_id, file_name, duration, language, file_type, file_size, status, error_log, created_at
		FROM transcriptions
		WHERE team_id = ? AND (file_name LIKE ? OR text LIKE ?)
		ORDER BY created_at DESC`, teamID, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTranscriptionSummaries(rows)
}

func scanTranscriptionSummaries(rows *sql.Rows) ([]*models.Transcription, error) {
	recs := []*models.Transcription{}
	for rows.Next() {
		rec := &models.Transcription{}
		var errorLog sql.NullString
		if err := rows.Scan(&rec.ID, &rec.TeamID, &rec.UserID, &rec.FileName, &rec.Duration,
			&rec.Language, &rec.FileType, &rec.FileSize, &rec.Status, &errorLog, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.ErrorLog = errorLog.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// SavePlaybackPosition upserts where a user left off in a transcription.
func (d *Database) SavePlaybackPosition(userID int64, transcriptionID string, position float64) error {
	_, err := d.db.Exec(`
		INSERT INTO playback_history (user_id, transcription_id, position, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, transcription_id) DO UPDATE SET position=?, updated_at=?`,
		userID, transcriptionID, position, time.Now(),
		position, time.Now(),
	)
	return err
}

func (d *Database) GetPlaybackPosition(userID int64, transcriptionID string) (float64, error) {
	var pos float64
	err := d.db.QueryRow(
		"SELECT position FROM playback_history WHERE user_id = ? AND transcription_id = ?",
		userID, transcriptionID,
	).Scan(&pos)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return pos, err
}

// GetSetting returns a setting value by key, or defaultVal if not found
func (d *Database) GetSetting(key, defaultVal string) string {
	var val string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&val)
	if err != nil {
		return defaultVal
	}
	return val
}

// SetSetting upserts a setting
func (d *Database) SetSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP`,
		key, value, value,
	)
	return err
}

// GetAllSettings returns all settings as a map
func (d *Database) GetAllSettings() (map[string]string, error) {
	rows, err := d.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}

func (d *Database) Close() error {
	return d.db.Close()
}

// DB returns the underlying sql.DB for use by other packages.
func (d *Database) DB() *sql.DB {
	return d.db
}
