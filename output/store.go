package output

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pthm-cable/darkmesh/body"
)

const schema = `
CREATE TABLE IF NOT EXISTS frames (
	step	INTEGER,
	id	INTEGER,
	x	REAL,
	y	REAL,
	z	REAL,
	mass	REAL);
CREATE INDEX IF NOT EXISTS idx_step ON frames (step, id);
`

const insertFrame = `INSERT INTO frames VALUES (?, ?, ?, ?, ?, ?);`
const selectFrame = `SELECT id, x, y, z, mass FROM frames WHERE step = ? ORDER BY id ASC;`

// FrameStore records particle positions per checkpoint step in a sqlite
// database. sqlite allows only one writer at a time, so all writes go
// through the single store handle.
type FrameStore struct {
	db     *sql.DB
	insert *sql.Stmt
}

// OpenFrameStore opens or creates the database at path and prepares the
// frame insert.
func OpenFrameStore(path string) (*FrameStore, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return nil, fmt.Errorf("opening frame store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating frame tables: %w", err)
	}
	stmt, err := db.Prepare(insertFrame)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing frame insert: %w", err)
	}
	return &FrameStore{db: db, insert: stmt}, nil
}

// WriteFrame stores every particle's position and mass for one step inside
// a single transaction.
func (fs *FrameStore) WriteFrame(step int, ps *body.ParticleSet) error {
	tx, err := fs.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning frame transaction: %w", err)
	}
	stmt := tx.Stmt(fs.insert)

	for i := range ps.Particles {
		p := &ps.Particles[i]
		if _, err := stmt.Exec(step, i, p.Pos[0], p.Pos[1], p.Pos[2], p.Mass); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting frame row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing frame: %w", err)
	}
	return nil
}

// FrameRow is one stored particle record.
type FrameRow struct {
	ID   int
	X    float64
	Y    float64
	Z    float64
	Mass float64
}

// ReadFrame loads every particle row stored for a step, ordered by id.
func (fs *FrameStore) ReadFrame(step int) ([]FrameRow, error) {
	rows, err := fs.db.Query(selectFrame, step)
	if err != nil {
		return nil, fmt.Errorf("querying frame: %w", err)
	}
	defer rows.Close()

	var out []FrameRow
	for rows.Next() {
		var r FrameRow
		if err := rows.Scan(&r.ID, &r.X, &r.Y, &r.Z, &r.Mass); err != nil {
			return nil, fmt.Errorf("scanning frame row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating frame rows: %w", err)
	}
	return out, nil
}

// Close releases the prepared statement and the database handle.
func (fs *FrameStore) Close() error {
	if fs.insert != nil {
		fs.insert.Close()
	}
	return fs.db.Close()
}
