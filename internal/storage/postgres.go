package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (s *PostgresStorage) GetUsage(ctx context.Context, date string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM daily_usage WHERE usage_date = $1`, date).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error reading usage counter: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) IncrementUsage(ctx context.Context, date string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO daily_usage (usage_date, count)
		VALUES ($1, 1)
		ON CONFLICT (usage_date)
		DO UPDATE SET count = daily_usage.count + 1, updated_at = now()
		RETURNING count`, date).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error incrementing usage counter: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) ListEmployers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT employer FROM job_listings
		WHERE is_active = TRUE AND employer <> ''
		ORDER BY employer`)
	if err != nil {
		return nil, fmt.Errorf("error querying employers: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func (s *PostgresStorage) ListResourceCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM resources
		WHERE category <> ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("error querying resource categories: %w", err)
	}
	defer rows.Close()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return values, nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
