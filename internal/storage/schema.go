package storage

const schema = `
-- The 'sessions' table stores one row per logged study session. The
-- scheduling fields (accuracy, interval_days, next_review_at) are frozen
-- at insert time; only reviewed/reviewed_at are ever updated.
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    scope TEXT NOT NULL,
    topic TEXT NOT NULL,
    studied_at TEXT NOT NULL,        -- calendar date, 2006-01-02
    questions_total INTEGER NOT NULL,
    questions_correct INTEGER NOT NULL,
    accuracy INTEGER NOT NULL,
    interval_days INTEGER NOT NULL,
    next_review_at TEXT NOT NULL,    -- calendar date, 2006-01-02
    reviewed INTEGER NOT NULL DEFAULT 0,
    reviewed_at TEXT,                -- calendar date, NULL while not reviewed
    created_at TEXT NOT NULL         -- RFC3339Nano, drives default ordering
);

CREATE INDEX IF NOT EXISTS idx_sessions_scope_created
    ON sessions(scope, created_at DESC);

-- The 'rules' table stores each scope's rule set as ordered rows; position
-- is the band-matching priority. Saves replace a scope's rows wholesale.
CREATE TABLE IF NOT EXISTS rules (
    scope TEXT NOT NULL,
    position INTEGER NOT NULL,
    min INTEGER NOT NULL,
    max INTEGER NOT NULL,
    days INTEGER NOT NULL,
    PRIMARY KEY (scope, position)
);

-- The 'sources' table tracks topic-catalog origins, either a local
-- directory or a git repository.
CREATE TABLE IF NOT EXISTS sources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,              -- 'local' or 'git'
    last_scanned TEXT
);

-- The 'topics' table is the synced study-topic catalog.
CREATE TABLE IF NOT EXISTS topics (
    name TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    source_id INTEGER NOT NULL,
    PRIMARY KEY (name, source_id),
    FOREIGN KEY(source_id) REFERENCES sources(id)
);
`
