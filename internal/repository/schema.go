package repository

import (
	"context"
	"fmt"
)

var schema = []struct {
	name string
	ddl  string
}{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	full_name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	mobile VARCHAR(32) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	{"users_email_idx", `CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (lower(email));`},
	{"flights", `
CREATE TABLE IF NOT EXISTS flights (
	id BIGSERIAL PRIMARY KEY,
	airline VARCHAR(100) NOT NULL,
	flight_number VARCHAR(20) NOT NULL,
	from_code VARCHAR(10) NOT NULL,
	to_code VARCHAR(10) NOT NULL,
	depart_time VARCHAR(16) NOT NULL,
	arrive_time VARCHAR(16) NOT NULL,
	duration VARCHAR(16) NOT NULL,
	price NUMERIC(10, 2) NOT NULL,
	travel_type VARCHAR(20) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	pnr VARCHAR(6) NOT NULL,
	user_id BIGINT,
	contact_email VARCHAR(255) NOT NULL DEFAULT '',
	passengers JSONB,
	seats JSONB,
	addons JSONB,
	payment_data JSONB,
	flight_id BIGINT REFERENCES flights (id),
	flight_data JSONB,
	status VARCHAR(20) NOT NULL DEFAULT 'confirmed',
	cancellation_status VARCHAR(32),
	cancellation_date TIMESTAMPTZ,
	expected_refund_date TIMESTAMPTZ,
	refund_completed_date TIMESTAMPTZ,
	total_price NUMERIC(10, 2) NOT NULL DEFAULT 0,
	cancellation_charges NUMERIC(10, 2) NOT NULL DEFAULT 0,
	refund_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
	version BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
	{"bookings_pnr_idx", `CREATE UNIQUE INDEX IF NOT EXISTS bookings_pnr_idx ON bookings (upper(pnr));`},
	{"bookings_pending_idx", `
CREATE INDEX IF NOT EXISTS bookings_pending_idx ON bookings (expected_refund_date)
	WHERE cancellation_status = 'pending_cancellation';`},
	{"support_tickets", `
CREATE TABLE IF NOT EXISTS support_tickets (
	id BIGSERIAL PRIMARY KEY,
	ticket_number VARCHAR(9) NOT NULL UNIQUE,
	user_id BIGINT NOT NULL REFERENCES users (id),
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	subject VARCHAR(255) NOT NULL,
	message TEXT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'open',
	priority VARCHAR(10) NOT NULL DEFAULT 'medium',
	response TEXT,
	response_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`},
}

// InitializeSchema creates the tables the service needs if they are missing.
func InitializeSchema(ctx context.Context, db Querier) error {
	for _, s := range schema {
		if _, err := db.Exec(ctx, s.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", s.name, err)
		}
	}
	return nil
}
