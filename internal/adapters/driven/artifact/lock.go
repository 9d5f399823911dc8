package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/logger"
)

// LockPath returns the build lock file guarding the artifact directory.
func (s *Store) LockPath() string {
	return s.dir + ".lock"
}

// Lock takes the cross-process build lock by creating the lock file exclusively.
// The file records the holder's pid. A lock whose holder is no longer running
// is taken over once; a live holder yields domain.ErrBuildInProgress naming its pid.
func (s *Store) Lock(ctx context.Context) (func() error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.dir), 0700); err != nil {
		return nil, fmt.Errorf("creating artifact parent: %w", err)
	}

	path := s.LockPath()
	err := createLock(path)
	if errors.Is(err, os.ErrExist) {
		var holder int
		holder, err = s.breakStaleLock(path)
		if err == nil {
			logger.Warn("took over build lock %s left by pid %d", path, holder)
			err = createLock(path)
		}
	}
	if err != nil {
		return nil, err
	}

	return func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("releasing lock: %w", err)
		}
		return nil
	}, nil
}

func createLock(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("lock %s held: %w: %w", path, domain.ErrBuildInProgress, err)
		}
		return fmt.Errorf("creating lock file: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("writing lock file: %w", err)
	}
	return nil
}

// breakStaleLock removes the lock at path when the pid it records is not running.
// The file is renamed aside before removal, and put back if it turns out to
// belong to a build that took the lock in between.
func (s *Store) breakStaleLock(path string) (int, error) {
	holder, err := readLockPID(path)
	if err != nil {
		return 0, fmt.Errorf("lock %s held: %w: %w", path, domain.ErrBuildInProgress, err)
	}
	if holder == os.Getpid() || processAlive(holder) {
		return 0, fmt.Errorf("lock %s held by pid %d: %w", path, holder, domain.ErrBuildInProgress)
	}

	aside := path + ".stale-" + uuid.NewString()
	if err := os.Rename(path, aside); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Someone else cleared it first.
			return holder, nil
		}
		return 0, fmt.Errorf("clearing stale lock %s: %w", path, err)
	}
	if pid, err := readLockPID(aside); err == nil && pid != holder {
		if err := os.Rename(aside, path); err != nil {
			logger.Error("restoring lock %s: %v", path, err)
		}
		return 0, fmt.Errorf("lock %s held by pid %d: %w", path, pid, domain.ErrBuildInProgress)
	}
	if err := os.Remove(aside); err != nil {
		logger.Debug("removing stale lock %s: %v", aside, err)
	}
	return holder, nil
}

func readLockPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("lock file %s does not record a pid", path)
	}
	return pid, nil
}
