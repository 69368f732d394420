package snapshot

import (
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/fiber/internal/errors"
)

// FileStore writes records as files under Dir.
type FileStore struct {
	Dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. The directory is created on
// the first Put.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Put implements Store.
func (s *FileStore) Put(ctx context.Context, rec *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := rec.Encode()
	if err != nil {
		return errors.New("E140").WithDetail(rec.Key()).Wrap(err)
	}

	path := s.Path(rec)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.New("E140").WithDetail(path).Wrap(err)
	}
	// Write through a temp file so readers never see a partial record.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.New("E140").WithDetail(path).Wrap(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.New("E140").WithDetail(path).Wrap(err)
	}
	return nil
}

// Get reads the record stored under key.
func (s *FileStore) Get(key string) (*Record, error) {
	path := filepath.Join(s.Dir, filepath.FromSlash(key))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E140").WithDetail(path).Wrap(err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, errors.New("E140").WithDetail(path).Wrap(err)
	}
	return rec, nil
}

// Path returns the file the record is written to.
func (s *FileStore) Path(rec *Record) string {
	return filepath.Join(s.Dir, filepath.FromSlash(rec.Key()))
}
