package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DarkModeKey is the key the flag is stored under.
const DarkModeKey = "darkMode"

// Store is a small string key-value file holding the persisted theme flag.
type Store struct {
	path string
}

// NewStore returns a store backed by the YAML file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStatePath returns the per-user state file location.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "backdrop", "state.yaml"), nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// LoadDark reads the flag. A missing file or key reads as light mode;
// only the exact value "true" means dark.
func (s *Store) LoadDark() (bool, error) {
	values, err := s.read()
	if err != nil {
		return false, err
	}
	return values[DarkModeKey] == "true", nil
}

// SaveDark writes the flag, keeping any other keys in the file.
func (s *Store) SaveDark(dark bool) error {
	values, err := s.read()
	if err != nil {
		return err
	}
	values[DarkModeKey] = strconv.FormatBool(dark)
	return s.write(values)
}

func (s *Store) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading theme state: %w", err)
	}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parsing theme state: %w", err)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// write replaces the file via a temp file and rename.
func (s *Store) write(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshaling theme state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing theme state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing theme state: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing theme state: %w", err)
	}
	return nil
}
