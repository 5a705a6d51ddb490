package deployment

// Schema is the fixed DDL replayed against a client project by
// initialize_database. Statements are idempotent so a re-run converges
// instead of failing; execution is statement by statement and individual
// errors do not stop the push.
func Schema() []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		`CREATE TABLE IF NOT EXISTS client_profiles (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			full_name varchar(100) NOT NULL,
			email varchar(100) NOT NULL,
			phone varchar(20),
			is_approved boolean NOT NULL DEFAULT false,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_client_profiles_email
			ON client_profiles (email)`,

		`CREATE TABLE IF NOT EXISTS client_services (
			id serial PRIMARY KEY,
			name varchar(100) NOT NULL,
			description varchar(500),
			duration_min integer NOT NULL DEFAULT 60,
			price numeric(10,2) NOT NULL DEFAULT 0,
			is_active boolean NOT NULL DEFAULT true
		)`,

		`CREATE TABLE IF NOT EXISTS client_appointments (
			id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			appointment_date date NOT NULL,
			appointment_time varchar(5) NOT NULL,
			user_name varchar(100) NOT NULL,
			user_email varchar(100) NOT NULL,
			user_phone varchar(20),
			service_type varchar(100),
			notes varchar(500),
			status varchar(20) NOT NULL DEFAULT 'pending',
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_client_appointments_slot
			ON client_appointments (appointment_date, appointment_time)
			WHERE status <> 'cancelled'`,
		`CREATE INDEX IF NOT EXISTS ix_client_appointments_date
			ON client_appointments (appointment_date)`,

		`CREATE TABLE IF NOT EXISTS client_settings (
			key varchar(64) PRIMARY KEY,
			value text,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,
	}
}

// probeStatement is what test_connection runs against the remote. The table
// is part of the pushed schema, so "undefined table" still proves the
// connection works.
const probeStatement = `SELECT 1 FROM client_profiles LIMIT 1`
