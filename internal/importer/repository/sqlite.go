package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"design-importer/internal/importer/models"
)

// ============================================================
// SQLite Font Choice Cache
// ============================================================

// Repository хранит решения пользователя по шрифтам между артбордами
// и запусками импорта в рамках одной сессии.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Get возвращает сохраненное решение по семейству (ключ в нижнем регистре).
func (r *Repository) Get(ctx context.Context, family string) (models.FontChoice, bool, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT platform_ref, use_image
        FROM font_choices
        WHERE family = ?
    `, family)

	var ref string
	var useImage int
	if err := row.Scan(&ref, &useImage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.FontChoice{}, false, nil
		}
		return models.FontChoice{}, false, err
	}
	return models.FontChoice{Ref: ref, UseImage: useImage != 0}, true, nil
}

// Put записывает решение, перезаписывая прежнее для того же семейства.
func (r *Repository) Put(ctx context.Context, family string, choice models.FontChoice) error {
	useImage := 0
	if choice.UseImage {
		useImage = 1
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO font_choices (family, platform_ref, use_image)
        VALUES (?, ?, ?)
        ON CONFLICT(family) DO UPDATE SET platform_ref = excluded.platform_ref, use_image = excluded.use_image
    `, family, choice.Ref, useImage)
	if err != nil {
		return fmt.Errorf("put font choice: %w", err)
	}
	return nil
}

// Clear сбрасывает кэш решений между запусками.
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM font_choices`); err != nil {
		return fmt.Errorf("clear font choices: %w", err)
	}
	return nil
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.Exec(string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
