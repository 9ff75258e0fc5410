package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/dhamidi/jintro/java/refactor"
)

const sessionSchemaVersion uint16 = 1

// sessionFile is the on-disk form of refactor.Session.
type sessionFile struct {
	Schema        uint16 `msgpack:"schema"`
	LastPlacement string `msgpack:"last_placement"`
	HasHint       bool   `msgpack:"has_hint"`
}

// sessionStore keeps the placement hint between runs.
type sessionStore struct {
	path string
}

// openSessionStore places the session under $XDG_CACHE_HOME/jintro,
// falling back to ~/.cache/jintro.
func openSessionStore() (*sessionStore, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "jintro")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &sessionStore{path: filepath.Join(dir, "session.msgpack")}, nil
}

// Load returns the stored session. A missing, unreadable or outdated file
// yields an empty session.
func (s *sessionStore) Load() refactor.Session {
	if s == nil {
		return refactor.Session{}
	}
	f, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warningf("session: %v", err)
		}
		return refactor.Session{}
	}
	defer f.Close()

	var sf sessionFile
	if err := msgpack.NewDecoder(f).Decode(&sf); err != nil {
		log.Warningf("session: %s: %v", s.path, err)
		return refactor.Session{}
	}
	if sf.Schema != sessionSchemaVersion || !sf.HasHint {
		return refactor.Session{}
	}
	kind, err := refactor.ParsePlacement(sf.LastPlacement)
	if err != nil {
		log.Warningf("session: %v", err)
		return refactor.Session{}
	}
	return refactor.Session{}.Remember(kind)
}

// Save writes the session through a temporary file so readers never see a
// partial write.
func (s *sessionStore) Save(session refactor.Session) error {
	if s == nil {
		return nil
	}
	sf := sessionFile{Schema: sessionSchemaVersion}
	if kind, ok := session.Hint(); ok {
		sf.LastPlacement = kind.String()
		sf.HasHint = true
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "session-*.tmp")
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := msgpack.NewEncoder(tmp).Encode(&sf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
