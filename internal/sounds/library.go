// ABOUTME: Bundled engine sound library
// ABOUTME: Maps internal combustion engine sounds to stable IDs and files
package sounds

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"
)

// Internal combustion engine sound filenames.
const (
	McLarenF1          = "mclaren_f1.wav"
	LaFerrari          = "la_ferrari.wav"
	Porsche911         = "porsche_911.wav"
	BMWM4              = "bmw_m4.wav"
	JaguarETypeSeries1 = "jaguar_e_type_series_1.wav"
	FordModelT         = "ford_model_t.wav"
	FordMustangGT350   = "ford_mustang_gt350.wav"
)

// DefaultSound is used whenever an unknown sound is requested.
const DefaultSound = McLarenF1

// catalog assigns each sound a stable numeric ID. The IDs are part of the
// companion-app protocol and must never be renumbered.
var catalog = map[string]int{
	McLarenF1:          0,
	LaFerrari:          1,
	Porsche911:         2,
	BMWM4:              3,
	JaguarETypeSeries1: 4,
	FordModelT:         5,
	FordMustangGT350:   6,
}

// Library resolves sound names to files in a sounds directory.
type Library struct {
	dir string
}

// NewLibrary creates a library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Path returns the file path for a known sound name.
func (l *Library) Path(name string) (string, error) {
	if _, ok := catalog[name]; !ok {
		return "", fmt.Errorf("unknown engine sound: %s", name)
	}
	return filepath.Join(l.dir, name), nil
}

// Resolve returns the path for name, falling back to the default sound
// with a warning when name is not in the catalog.
func (l *Library) Resolve(name string) (string, string) {
	if _, ok := catalog[name]; !ok {
		log.Printf("WARNING: engine sound %q not in catalog, keeping %s", name, DefaultSound)
		name = DefaultSound
	}
	return filepath.Join(l.dir, name), name
}

// SoundID returns the protocol ID for a sound name.
func SoundID(name string) (int, bool) {
	id, ok := catalog[name]
	return id, ok
}

// SoundByID returns the sound name for a protocol ID.
func SoundByID(id int) (string, bool) {
	for name, sid := range catalog {
		if sid == id {
			return name, true
		}
	}
	return "", false
}

// Names returns all catalog sound names, ordered by ID.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return catalog[names[i]] < catalog[names[j]]
	})
	return names
}
