// Package store database for the wall image slot, hold registry, and settings
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/aouyang1/climbcraft/photo"
	_ "modernc.org/sqlite"
)

var ErrHoldNotFound = errors.New("hold not found")

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	database := &Database{db: db}
	if err := database.createTable(); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return database, nil
}

func (d *Database) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT NOT NULL PRIMARY KEY,
		value BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS holds (
		hold_name  TEXT NOT NULL,
		group_name TEXT NOT NULL,
		"order"    INTEGER NOT NULL,
		PRIMARY KEY (hold_name, group_name)
	);
	CREATE INDEX IF NOT EXISTS idx_holds_group_order ON holds(group_name, "order");
	CREATE TABLE IF NOT EXISTS app_settings (
		singleton      INTEGER NOT NULL DEFAULT 1 CHECK (singleton = 1),
		max_scale      REAL NOT NULL,
		target_max_dim INTEGER NOT NULL,
		PRIMARY KEY (singleton)
	);
	`
	_, err := d.db.Exec(query)
	return err
}

// GetBlob returns nil with no error when key is absent.
func (d *Database) GetBlob(key string) ([]byte, error) {
	var value []byte
	err := d.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (d *Database) SetBlob(key string, value []byte) error {
	const stmt = `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := d.db.Exec(stmt, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// DeleteKey is a no-op for absent keys.
func (d *Database) DeleteKey(key string) error {
	if _, err := d.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// GetImage decodes the image stored under key. An absent key yields a nil
// image and nil error.
func (d *Database) GetImage(key string) (image.Image, error) {
	data, err := d.GetBlob(key)
	if err != nil || data == nil {
		return nil, err
	}
	img, err := photo.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("stored image %s: %w", key, err)
	}
	return img, nil
}

// SetImage stores img under key as PNG.
func (d *Database) SetImage(key string, img image.Image) error {
	data, err := photo.EncodePNG(img)
	if err != nil {
		return err
	}
	return d.SetBlob(key, data)
}

func (d *Database) InsertHold(name string, group string, order int) error {
	query := `INSERT INTO holds (hold_name, group_name, "order") VALUES (?, ?, ?)`
	_, err := d.db.Exec(query, name, group, order)
	if err != nil {
		return fmt.Errorf("failed to insert hold: %w", err)
	}
	return nil
}

func (d *Database) queryHolds(query string, args ...any) ([]Hold, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holds: %w", err)
	}
	defer rows.Close()

	var holds []Hold
	for rows.Next() {
		var h Hold
		if err := rows.Scan(&h.HoldName, &h.GroupName, &h.Order); err != nil {
			return nil, fmt.Errorf("failed to scan hold: %w", err)
		}
		holds = append(holds, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return holds, nil
}

func (d *Database) GetHolds(group string, limit int, offset int) ([]Hold, error) {
	return d.queryHolds(`
		SELECT hold_name, group_name, "order"
		FROM holds
		WHERE group_name = ?
		ORDER BY "order" ASC
		LIMIT ? OFFSET ?
	`, group, limit, offset)
}

// GetAllHolds lists a group in registration order.
func (d *Database) GetAllHolds(group string) ([]Hold, error) {
	return d.queryHolds(`
		SELECT hold_name, group_name, "order"
		FROM holds
		WHERE group_name = ?
		ORDER BY "order" ASC
	`, group)
}

// ListHolds returns every registered hold grouped by group name.
func (d *Database) ListHolds() ([]Hold, error) {
	return d.queryHolds(`
		SELECT hold_name, group_name, "order"
		FROM holds
		ORDER BY group_name ASC, "order" ASC
	`)
}

// GroupHoldNames satisfies catalog.Source.
func (d *Database) GroupHoldNames(group string) ([]string, error) {
	holds, err := d.GetAllHolds(group)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(holds))
	for _, h := range holds {
		names = append(names, h.HoldName)
	}
	return names, nil
}

func (d *Database) GetHoldCount(group string) (int, error) {
	query := `SELECT COUNT(*) FROM holds WHERE group_name = ?`
	var count int
	err := d.db.QueryRow(query, group).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get hold count: %w", err)
	}
	return count, nil
}

func (d *Database) DeleteHold(name string, group string) error {
	query := `DELETE FROM holds WHERE hold_name = ? AND group_name = ?`
	result, err := d.db.Exec(query, name, group)
	if err != nil {
		return fmt.Errorf("failed to delete hold: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s in group %s", ErrHoldNotFound, name, group)
	}

	return nil
}

// GetMaxOrder returns the next free order slot in group.
func (d *Database) GetMaxOrder(group string) (int, error) {
	query := `SELECT COALESCE(MAX("order"), -1) FROM holds WHERE group_name = ?`
	var maxOrder int
	err := d.db.QueryRow(query, group).Scan(&maxOrder)
	if err != nil {
		return 0, fmt.Errorf("failed to get max order: %w", err)
	}
	return maxOrder + 1, nil
}

func (d *Database) HoldExists(name string, group string) (bool, error) {
	query := `SELECT COUNT(*) FROM holds WHERE hold_name = ? AND group_name = ?`
	var count int
	err := d.db.QueryRow(query, name, group).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check hold existence: %w", err)
	}
	return count > 0, nil
}

func (d *Database) GetAppSettings() (*AppSettings, error) {
	const query = `
		SELECT max_scale,
		       target_max_dim
		FROM app_settings
		WHERE singleton = 1
	`

	var s AppSettings
	err := d.db.QueryRow(query).Scan(&s.MaxScale, &s.TargetMaxDim)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := DefaultAppSettings
		if err := d.UpsertAppSettings(&defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app settings: %w", err)
	}
	return &s, nil
}

func (d *Database) UpsertAppSettings(s *AppSettings) error {
	const stmt = `
		INSERT INTO app_settings (
			singleton,
			max_scale,
			target_max_dim
		) VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO UPDATE SET
			max_scale      = excluded.max_scale,
			target_max_dim = excluded.target_max_dim
	`

	if _, err := d.db.Exec(stmt, s.MaxScale, s.TargetMaxDim); err != nil {
		return fmt.Errorf("upsert app settings: %w", err)
	}
	return nil
}

// SeedAppSettings writes s only when no settings row exists yet.
func (d *Database) SeedAppSettings(s AppSettings) error {
	const stmt = `
		INSERT INTO app_settings (singleton, max_scale, target_max_dim)
		VALUES (1, ?, ?)
		ON CONFLICT(singleton) DO NOTHING
	`
	if _, err := d.db.Exec(stmt, s.MaxScale, s.TargetMaxDim); err != nil {
		return fmt.Errorf("seed app settings: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}
