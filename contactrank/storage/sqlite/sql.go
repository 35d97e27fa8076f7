package sqlite

import "github.com/nonibytes/contactrank/contactrank/storage"

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS contacts (
  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
  id         TEXT UNIQUE NOT NULL,
  data_json  TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_updated ON contacts(updated_at);
`

var SQLTemplates = storage.SQL{
	GetMeta:  "SELECT value FROM meta WHERE key = ?1",
	SetMeta:  "INSERT INTO meta(key,value) VALUES(?1,?2) ON CONFLICT(key) DO UPDATE SET value=excluded.value",
	InitMeta: "INSERT OR IGNORE INTO meta(key,value) VALUES(?1,?2)",
	UpsertContact: `INSERT INTO contacts(id, data_json, created_at, updated_at)
		VALUES(?1, ?2, ?3, ?4)
		ON CONFLICT(id) DO UPDATE SET data_json=excluded.data_json, updated_at=excluded.updated_at`,
	GetContact:       "SELECT seq, id, data_json, created_at, updated_at FROM contacts WHERE id = ?1",
	ScanContacts:     "SELECT seq, id, data_json, created_at, updated_at FROM contacts ORDER BY seq",
	CountContacts:    "SELECT COUNT(*) FROM contacts",
	DeleteContactsIn: "DELETE FROM contacts WHERE id IN (",
}
