package store

// Schema is the jobfill SQLite schema.
const Schema = `
CREATE TABLE IF NOT EXISTS profiles (
    id         TEXT PRIMARY KEY,
    data       TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
    id           TEXT PRIMARY KEY,
    url          TEXT NOT NULL,
    platform     TEXT NOT NULL DEFAULT '',
    phase        TEXT NOT NULL,
    total        INTEGER NOT NULL DEFAULT 0,
    filled       INTEGER NOT NULL DEFAULT 0,
    unresolved   INTEGER NOT NULL DEFAULT 0,
    failed       INTEGER NOT NULL DEFAULT 0,
    success_rate REAL NOT NULL DEFAULT 0,
    error        TEXT NOT NULL DEFAULT '',
    results      TEXT NOT NULL DEFAULT '[]',
    started_at   INTEGER NOT NULL,
    finished_at  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC);
`
