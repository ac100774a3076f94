package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/cubescene/internal/notation"
)

// MoveRecord is a committed move in the database.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Letter    string
	Move      notation.Move
	Source    string
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, letter, axis, layer, clockwise, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Create stores a move and returns its ID.
func (r *MoveRepository) Create(rec MoveRecord) (int64, error) {
	result, err := r.db.Exec(insertMove, rec.SessionID, rec.MoveIndex, rec.TsMs, rec.Letter,
		int(rec.Move.Axis), rec.Move.Layer, rec.Move.Clockwise, rec.Source)
	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}
	return id, nil
}

// CreateBatch stores several moves in a single transaction.
func (r *MoveRepository) CreateBatch(recs []MoveRecord) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for _, rec := range recs {
			_, err := tx.Exec(insertMove, rec.SessionID, rec.MoveIndex, rec.TsMs, rec.Letter,
				int(rec.Move.Axis), rec.Move.Layer, rec.Move.Clockwise, rec.Source)
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", rec.MoveIndex, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves of a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, letter, axis, layer, clockwise, source
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		var axis int
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Letter,
			&axis, &m.Move.Layer, &m.Move.Clockwise, &m.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		m.Move.Axis = notation.Axis(axis)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// GetNextIndex returns the next move index for a session.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var maxIndex int
	err := r.db.QueryRow(`
		SELECT COALESCE(MAX(move_index), -1) FROM moves WHERE session_id = ?
	`, sessionID).Scan(&maxIndex)
	if err != nil {
		return 0, fmt.Errorf("failed to get max move index: %w", err)
	}
	return maxIndex + 1, nil
}

// Count returns the number of moves for a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// CountBySource groups a session's moves by source.
func (r *MoveRepository) CountBySource(sessionID string) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT source, COUNT(*) FROM moves WHERE session_id = ? GROUP BY source
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to count moves by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts[source] = n
	}
	return counts, rows.Err()
}

// Moves returns the notation moves of the records.
func Moves(records []MoveRecord) []notation.Move {
	moves := make([]notation.Move, len(records))
	for i, r := range records {
		moves[i] = r.Move
	}
	return moves
}
