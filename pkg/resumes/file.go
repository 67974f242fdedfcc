package resumes

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore keeps all resumes in a single JSON object mapping user id to
// resume text.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by path. The file is created on the
// first Put.
func NewFileStore(path string) (store *FileStore) {
	store = &FileStore{path: path}
	return store
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, user string) (text string, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all map[string]string
	all, err = s.load()
	if err != nil {
		return text, found, err
	}

	text, found = all[user]
	return text, found, err
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, user, text string) (err error) {
	err = checkPut(user, text)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var all map[string]string
	all, err = s.load()
	if err != nil {
		return err
	}
	all[user] = text

	err = s.save(all)
	return err
}

func (s *FileStore) load() (all map[string]string, err error) {
	all = make(map[string]string)

	var data []byte
	data, err = os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return all, err
		}
		err = errors.Wrapf(err, "failed to read resumes file: %s", s.path)
		return all, err
	}

	if len(data) == 0 {
		return all, err
	}

	err = json.Unmarshal(data, &all)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse resumes file: %s", s.path)
		return all, err
	}

	return all, err
}

// save writes through a temporary file so a crash never leaves a truncated
// store behind.
func (s *FileStore) save(all map[string]string) (err error) {
	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create resumes directory: %s", dir)
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(all, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal resumes")
		return err
	}

	tmp := s.path + ".tmp"
	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write resumes file: %s", tmp)
		return err
	}

	err = os.Rename(tmp, s.path)
	if err != nil {
		err = errors.Wrapf(err, "failed to replace resumes file: %s", s.path)
		return err
	}

	return err
}
