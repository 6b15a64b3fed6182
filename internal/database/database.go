package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS clients (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		contact_email TEXT,
		-- Store per-tenant preferences as JSON text
		settings_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT UNIQUE,
		email TEXT UNIQUE,
		password_hash TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS assets (
		id TEXT NOT NULL PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		ip_address TEXT,
		status TEXT NOT NULL, -- online, offline, maintenance
		-- Vulnerability list stored as JSON text
		vulnerabilities_json TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT NOT NULL PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		timestamp DATETIME NOT NULL,
		severity TEXT,
		type TEXT,
		alert_name TEXT,
		host TEXT,
		label TEXT, -- TP, TN, FP, FN or NULL when unclassified
		status TEXT,
		comments TEXT,
		process_name TEXT,
		process_path TEXT,
		file_hash TEXT,
		source_ip TEXT,
		source_port INTEGER,
		destination_ip TEXT,
		destination_port INTEGER,
		protocol TEXT,
		registry_key TEXT,
		mitre_tactic TEXT,
		mitre_technique TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_events_client_ts ON events(client_id, timestamp DESC);

	CREATE TABLE IF NOT EXISTS report_schedules (
		id TEXT NOT NULL PRIMARY KEY,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		cron_expression TEXT NOT NULL,
		window_days INTEGER NOT NULL DEFAULT 7,
		active INTEGER NOT NULL DEFAULT 1,
		last_run_at DATETIME,
		next_run_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}
