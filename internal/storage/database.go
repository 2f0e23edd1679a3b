// Package storage persists decks in SQLite. Loading never fails: stored data
// that cannot be read back as a valid deck yields an empty deck.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/conorfennell/lsatprep/internal/deck"
	"github.com/conorfennell/lsatprep/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Load returns the deck stored under key. A missing deck, a read error or
// malformed rows all produce an empty deck.
func (db *DB) Load(key string) *deck.Deck {
	d, err := db.load(key)
	if err != nil {
		slog.Warn("Stored deck unreadable, starting empty", "deck", key, "error", err)
		return &deck.Deck{}
	}
	return d
}

func (db *DB) load(key string) (*deck.Deck, error) {
	rows, err := db.conn.Query(`
		SELECT id, front, back, tag, level, due
		FROM cards WHERE deck_key = ?
		ORDER BY position
	`, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query deck %s: %w", key, err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var (
			c   domain.Card
			tag sql.NullString
			due string
		)
		if err := rows.Scan(&c.ID, &c.Front, &c.Back, &tag, &c.Level, &due); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		c.Tag = tag.String
		if c.Due, err = deck.ParseDue(due); err != nil {
			return nil, fmt.Errorf("card %s: %w", c.ID, err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deck %s: %w", key, err)
	}

	return deck.New(cards...)
}

// Save replaces the deck stored under key with d.
func (db *DB) Save(key string, d *deck.Deck) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save of deck %s: %w", key, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM cards WHERE deck_key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear deck %s: %w", key, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cards (deck_key, position, id, front, back, tag, level, due)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range d.Cards() {
		tag := sql.NullString{String: c.Tag, Valid: c.Tag != ""}
		if _, err := stmt.Exec(key, i, c.ID, c.Front, c.Back, tag, c.Level, deck.FormatDue(c.Due)); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit deck %s: %w", key, err)
	}
	return nil
}

// InsertReview appends a rating to the review log of deck key.
func (db *DB) InsertReview(key string, r domain.ReviewLog) error {
	_, err := db.conn.Exec(`
		INSERT INTO reviews (deck_key, card_id, quality, level, reviewed_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, r.CardID, r.Quality, r.Level, deck.FormatDue(r.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert review for card %s: %w", r.CardID, err)
	}
	return nil
}

// CountReviews returns how many ratings have been logged for deck key.
func (db *DB) CountReviews(key string) (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM reviews WHERE deck_key = ?`, key).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reviews for deck %s: %w", key, err)
	}
	return n, nil
}
