package store

// SchemaSQL is the complete schema for fresh installs. Statements are
// idempotent so Open can apply it unconditionally.
const SchemaSQL = `
-- Colleges aggregate complaint counters for the safety score
CREATE TABLE IF NOT EXISTS colleges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	location TEXT NOT NULL DEFAULT '',
	verified INTEGER NOT NULL DEFAULT 0,
	total_complaints INTEGER NOT NULL DEFAULT 0,
	solved_complaints INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Raw complaint submissions
CREATE TABLE IF NOT EXISTS complaints (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	college_id INTEGER REFERENCES colleges(id),
	college_name TEXT NOT NULL,
	complaint_desc TEXT NOT NULL,
	authority TEXT NOT NULL DEFAULT 'Pending Analysis',
	status TEXT NOT NULL DEFAULT 'Pending',
	escalated INTEGER NOT NULL DEFAULT 0,
	escalated_to TEXT,
	evidence_url TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	resolved_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_complaints_user ON complaints(user_id);
CREATE INDEX IF NOT EXISTS idx_complaints_college ON complaints(college_id);

-- Tracked cases, one per complaint
CREATE TABLE IF NOT EXISTS cases (
	id TEXT PRIMARY KEY,
	complaint_id INTEGER REFERENCES complaints(id),
	college_id INTEGER REFERENCES colleges(id),
	status TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0,
	last_updated TEXT NOT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	priority TEXT NOT NULL DEFAULT 'Medium',
	category TEXT NOT NULL DEFAULT '',
	estimated_completion TEXT NOT NULL DEFAULT 'TBD',
	notes TEXT NOT NULL DEFAULT '',
	escalation_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Escalation history, ordered per case
CREATE TABLE IF NOT EXISTS case_escalations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	target TEXT NOT NULL,
	reason TEXT NOT NULL,
	date TEXT NOT NULL,
	status TEXT NOT NULL,
	UNIQUE(case_id, position)
);

-- Identities allowed to view a case
CREATE TABLE IF NOT EXISTS case_authorized_users (
	case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL,
	PRIMARY KEY (case_id, user_id)
);
`
