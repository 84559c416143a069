package postgres

import (
	"context"
	"database/sql"
)

// schema creates the tables the repositories depend on. The unique index on
// users.phone is what makes UserRepository.Create an atomic
// check-and-insert.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	phone      TEXT NOT NULL UNIQUE,
	role       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rides (
	id              TEXT PRIMARY KEY,
	rider_id        TEXT NOT NULL REFERENCES users (id),
	driver_id       TEXT REFERENCES users (id),
	pickup_location TEXT NOT NULL,
	drop_location   TEXT NOT NULL,
	status          TEXT NOT NULL,
	fare            BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS rides_status_idx ON rides (status, created_at);
CREATE INDEX IF NOT EXISTS rides_rider_idx ON rides (rider_id, status);
CREATE INDEX IF NOT EXISTS rides_driver_idx ON rides (driver_id, status);
`

// EnsureSchema creates the users and rides tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
