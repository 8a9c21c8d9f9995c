package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Store reads and writes persistent settings in the config file.
type Store struct {
	path string
}

// NewStore creates a Store for the config file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// read loads the file into a fresh viper instance. A missing file is empty.
func (s *Store) read() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", s.path, err)
	}
	return v, nil
}

// Set validates value against the key's type and persists it.
// The config directory and file are created if needed.
func (s *Store) Set(key, value string) error {
	st, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}
	typed, err := st.coerce(value)
	if err != nil {
		return err
	}
	if st.kind == kindDuration {
		// Durations are stored in their readable form, e.g. "5m0s".
		typed = typed.(fmt.Stringer).String()
	}

	v, err := s.read()
	if err != nil {
		return err
	}
	v.Set(key, typed)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil { // #nosec G301 -- user config dir
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Get returns the stored value of key, or "" when unset.
func (s *Store) Get(key string) (string, error) {
	if _, ok := lookup(key); !ok {
		return "", fmt.Errorf("%q: %w", key, ErrUnknownKey)
	}
	v, err := s.read()
	if err != nil {
		return "", err
	}
	if !v.InConfig(key) {
		return "", nil
	}
	return cast.ToString(v.Get(key)), nil
}

// List returns every stored setting. Keys absent from the file are omitted.
func (s *Store) List() (map[string]string, error) {
	v, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, st := range settings {
		if v.InConfig(st.key) {
			out[st.key] = cast.ToString(v.Get(st.key))
		}
	}
	return out, nil
}
