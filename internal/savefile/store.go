package savefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the save file extension.
const Ext = ".ccw"

// Store keeps one save file per world in Dir.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir. Save creates the directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+Ext)
}

// Exists reports whether a save named name is present.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

// Create writes a new empty world.
func (s *Store) Create(name, seed string) (*SaveFile, error) {
	sf, err := New(name, seed)
	if err != nil {
		return nil, err
	}
	if s.Exists(name) {
		return nil, fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err := s.Save(sf); err != nil {
		return nil, err
	}
	return sf, nil
}

// Load reads the save named name.
func (s *Store) Load(name string) (*SaveFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return sf, nil
}

// Save writes sf atomically, replacing any previous save of the same name.
func (s *Store) Save(sf *SaveFile) error {
	if err := ValidateName(sf.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Dir, sf.Name+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, sf); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", sf.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path(sf.Name))
}

// Delete removes the save named name.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return err
}

// List returns the headers of every readable save, sorted by name. A
// missing directory is an empty list. Unreadable saves are skipped and
// reported in the joined error.
func (s *Store) List() ([]Header, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Header
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		h, err := s.readHeader(filepath.Join(s.Dir, e.Name()))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, errors.Join(errs...)
}

func (s *Store) readHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()
	return ReadHeader(f)
}
