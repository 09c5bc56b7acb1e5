package backup

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FormatVersion is the version written by Encode. Decode rejects newer ones.
const FormatVersion = 1

// Schema is the top-level YAML document of a backup.
type Schema struct {
	Version    int           `yaml:"version"`
	ExportedAt string        `yaml:"exported_at,omitempty"`
	Habits     []HabitRecord `yaml:"habits"`
}

// HabitRecord is one habit in a backup. Days holds only done and missed
// entries; absent days are pending.
type HabitRecord struct {
	ID        string            `yaml:"id,omitempty"`
	Name      string            `yaml:"name"`
	Time      string            `yaml:"time,omitempty"`
	StartDate string            `yaml:"start_date"`
	CreatedAt string            `yaml:"created_at,omitempty"`
	Days      map[string]string `yaml:"days,omitempty"`
}

// Load reads and parses a backup file.
func Load(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a backup document.
func Decode(r io.Reader) (*Schema, error) {
	var s Schema
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing backup: empty document")
		}
		return nil, fmt.Errorf("parsing backup: %w", err)
	}
	if s.Version > FormatVersion {
		return nil, fmt.Errorf("backup version %d is newer than supported version %d", s.Version, FormatVersion)
	}
	return &s, nil
}

// Encode writes s as YAML.
func Encode(w io.Writer, s *Schema) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return enc.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
