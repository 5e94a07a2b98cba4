// ABOUTME: SQLite-backed garage store
// ABOUTME: Persists users, vehicles, the sound catalog and preferences
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmuffler/dmuffler-go/internal/sounds"
)

// ErrNoPreference is returned when a vehicle has no stored preference.
var ErrNoPreference = errors.New("no preference stored")

// Store wraps the local SQLite database. It keeps the app usable without
// internet access: users, vehicles and sound preferences all live here.
type Store struct {
	db *sql.DB
}

// Sound is one catalog row.
type Sound struct {
	ID       int
	Filename string
}

// Preference is a vehicle's stored playback setup.
type Preference struct {
	VIN         string
	Sound       string
	PitchFactor float64
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. The engine-sound catalog is seeded on first open.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.seedSounds(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) createTables() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER REFERENCES users(id),
			vin TEXT NOT NULL UNIQUE,
			make TEXT,
			model TEXT,
			color TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS engine_sounds (
			id INTEGER PRIMARY KEY,
			filename TEXT NOT NULL UNIQUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			vin TEXT PRIMARY KEY,
			sound TEXT NOT NULL,
			pitch_factor REAL NOT NULL,
			updated_at TIMESTAMP
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// seedSounds prepopulates the engine-sound catalog.
func (s *Store) seedSounds() error {
	for _, name := range sounds.Names() {
		id, _ := sounds.SoundID(name)
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO engine_sounds (id, filename) VALUES (?, ?)`,
			id, name,
		)
		if err != nil {
			return fmt.Errorf("failed to seed sound %s: %w", name, err)
		}
	}
	return nil
}

// AddUser inserts a user and returns its ID.
func (s *Store) AddUser(firstName string) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO users (first_name) VALUES (?)`, firstName)
	if err != nil {
		return 0, fmt.Errorf("failed to add user: %w", err)
	}
	return res.LastInsertId()
}

// AddVehicle inserts a vehicle for a user and returns its ID.
func (s *Store) AddVehicle(userID int64, vin, vehicleMake, model, color string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO vehicles (user_id, vin, make, model, color) VALUES (?, ?, ?, ?, ?)`,
		userID, vin, vehicleMake, model, color,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add vehicle: %w", err)
	}
	return res.LastInsertId()
}

// Sounds returns the seeded catalog, ordered by ID.
func (s *Store) Sounds() ([]Sound, error) {
	rows, err := s.db.Query(`SELECT id, filename FROM engine_sounds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sounds: %w", err)
	}
	defer rows.Close()

	var result []Sound
	for rows.Next() {
		var snd Sound
		if err := rows.Scan(&snd.ID, &snd.Filename); err != nil {
			return nil, err
		}
		result = append(result, snd)
	}
	return result, rows.Err()
}

// SetPreference stores (or replaces) a vehicle's playback preference.
func (s *Store) SetPreference(pref Preference) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (vin, sound, pitch_factor, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(vin) DO UPDATE SET sound=excluded.sound,
		 pitch_factor=excluded.pitch_factor, updated_at=excluded.updated_at`,
		pref.VIN, pref.Sound, pref.PitchFactor, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store preference: %w", err)
	}
	return nil
}

// Preference returns the stored preference for a VIN.
func (s *Store) Preference(vin string) (Preference, error) {
	pref := Preference{VIN: vin}

	err := s.db.QueryRow(
		`SELECT sound, pitch_factor FROM preferences WHERE vin = ?`, vin,
	).Scan(&pref.Sound, &pref.PitchFactor)
	if err == sql.ErrNoRows {
		return Preference{}, ErrNoPreference
	}
	if err != nil {
		return Preference{}, fmt.Errorf("failed to load preference: %w", err)
	}

	return pref, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
