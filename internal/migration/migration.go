package migration

// Create builds the local show cache. Every statement is idempotent.
const Create = `
CREATE TABLE IF NOT EXISTS Show (
  id INTEGER PRIMARY KEY,
  date TEXT NOT NULL,
  venue TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  setlistdata TEXT,
  UNIQUE (date, venue)
);

CREATE INDEX IF NOT EXISTS ShowDate ON Show (date);

CREATE TABLE IF NOT EXISTS Song (
  name TEXT PRIMARY KEY,
  times_played INTEGER NOT NULL DEFAULT 0,
  last_played TEXT NOT NULL DEFAULT '',
  debut TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS Year (
  year INTEGER PRIMARY KEY,
  last_updated DATETIME
);

CREATE TABLE IF NOT EXISTS InsightCache (
  key TEXT PRIMARY KEY,
  payload TEXT NOT NULL,
  computed_at DATETIME NOT NULL
);
`
