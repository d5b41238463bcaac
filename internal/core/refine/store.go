package refine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/agenthands/netrepair/internal/errors"
	"github.com/gofrs/flock"
)

// Store hands state between iterations.
type Store interface {
	ReadProgram() (string, error)
	// WriteProgram replaces the current program, keeping the old one as the
	// previous program.
	WriteProgram(program string) error
	WriteOutput(raw string) error
	WriteBest(raw string) error
}

// FileStore keeps the refinement state of one network in a directory:
//
//	<dir>/<name>.lp              current program
//	<dir>/<name>.prev.lp         program of the previous iteration
//	<dir>/<name>.out             raw output of the last solver call
//	<dir>/bestRepair_<name>.txt  raw output of the best answer so far
//
// Every write goes to a temporary file renamed over the target.
type FileStore struct {
	Dir  string
	Name string

	lock *flock.Flock
}

func NewFileStore(dir, name string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.IO("create", dir, err)
	}
	return &FileStore{Dir: dir, Name: name}, nil
}

func (s *FileStore) ProgramPath() string { return filepath.Join(s.Dir, s.Name+".lp") }
func (s *FileStore) PrevPath() string    { return filepath.Join(s.Dir, s.Name+".prev.lp") }
func (s *FileStore) OutputPath() string  { return filepath.Join(s.Dir, s.Name+".out") }
func (s *FileStore) BestPath() string    { return filepath.Join(s.Dir, "bestRepair_"+s.Name+".txt") }
func (s *FileStore) lockPath() string    { return filepath.Join(s.Dir, s.Name+".lock") }

// Lock claims the network's files for one refinement run. It fails instead
// of waiting when another run holds them.
func (s *FileStore) Lock() error {
	if s.lock == nil {
		s.lock = flock.New(s.lockPath())
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return apperrors.IO("lock", s.lockPath(), err)
	}
	if !ok {
		return apperrors.IO("lock", s.lockPath(), errors.New("another refinement run holds the lock"))
	}
	return nil
}

func (s *FileStore) Unlock() error {
	if s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// Init writes the initial program and clears state left by earlier runs.
func (s *FileStore) Init(program string) error {
	for _, p := range []string{s.PrevPath(), s.OutputPath(), s.BestPath()} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return apperrors.IO("remove", p, err)
		}
	}
	return writeAtomic(s.ProgramPath(), program)
}

func (s *FileStore) ReadProgram() (string, error) {
	return readFile(s.ProgramPath())
}

func (s *FileStore) WriteProgram(program string) error {
	current, err := os.ReadFile(s.ProgramPath())
	switch {
	case err == nil:
		if err := writeAtomic(s.PrevPath(), string(current)); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return apperrors.IO("read", s.ProgramPath(), err)
	}
	return writeAtomic(s.ProgramPath(), program)
}

func (s *FileStore) WriteOutput(raw string) error {
	return writeAtomic(s.OutputPath(), raw)
}

func (s *FileStore) WriteBest(raw string) error {
	return writeAtomic(s.BestPath(), raw)
}

// ReadBest returns the best snapshot, or an empty string when no answer was
// accepted yet.
func (s *FileStore) ReadBest() (string, error) {
	raw, err := readFile(s.BestPath())
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return raw, err
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", apperrors.IO("read", path, err)
	}
	return string(data), nil
}

func writeAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.IO("create temp file for", path, err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return apperrors.IO("write", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.IO("sync", path, err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.IO("close", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return apperrors.IO("rename", path, err)
	}
	return nil
}
