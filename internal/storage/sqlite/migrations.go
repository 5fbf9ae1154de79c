package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Child tables reference their owner with ON DELETE CASCADE so replacing a
// snapshot only needs to delete the owner's members, records and payments.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS workspaces (
    owner_id TEXT PRIMARY KEY,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    owner_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    active INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (owner_id, id),
    FOREIGN KEY (owner_id) REFERENCES workspaces(owner_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS lunch_records (
    owner_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    date TEXT NOT NULL,
    description TEXT NOT NULL,
    total REAL NOT NULL,
    paid_by_id TEXT NOT NULL,
    paid_by_name TEXT NOT NULL,
    note TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (owner_id, id),
    FOREIGN KEY (owner_id) REFERENCES workspaces(owner_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS record_participants (
    owner_id TEXT NOT NULL,
    record_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    share REAL,
    PRIMARY KEY (owner_id, record_id, position),
    FOREIGN KEY (owner_id, record_id) REFERENCES lunch_records(owner_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS payments (
    owner_id TEXT NOT NULL,
    id TEXT NOT NULL,
    position INTEGER NOT NULL,
    date TEXT NOT NULL,
    member_id TEXT NOT NULL,
    member_name TEXT NOT NULL,
    amount REAL NOT NULL,
    note TEXT NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (owner_id, id),
    FOREIGN KEY (owner_id) REFERENCES workspaces(owner_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_members_owner ON members(owner_id);
CREATE INDEX IF NOT EXISTS idx_lunch_records_owner ON lunch_records(owner_id);
CREATE INDEX IF NOT EXISTS idx_record_participants_record ON record_participants(owner_id, record_id);
CREATE INDEX IF NOT EXISTS idx_payments_owner ON payments(owner_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
