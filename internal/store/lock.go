package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"ytdl/internal/domain/consts"
	"ytdl/internal/domain/errconsts"
)

// Lock is an advisory lock held on a store directory for the length of a session.
type Lock struct {
	lockDir string
}

// LockOwner describes the session holding a lock.
type LockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

// LockPath returns the lock directory for a store directory.
func LockPath(storeDir string) string {
	return filepath.Clean(storeDir) + consts.LockDirSuffix
}

// AcquireLock takes the advisory lock for storeDir, failing fast with
// ErrStoreLocked if another session holds it.
func AcquireLock(storeDir string) (*Lock, error) {
	target := strings.TrimSpace(storeDir)
	if target == "" {
		return nil, fmt.Errorf("store directory is required")
	}

	lockDir := LockPath(target)
	if err := os.MkdirAll(filepath.Dir(lockDir), consts.PermsGenericDir); err != nil {
		return nil, fmt.Errorf("create parent of lock %s: %w", lockDir, err)
	}

	if err := os.Mkdir(lockDir, consts.PermsGenericDir); err != nil {
		if os.IsExist(err) {
			if owner, ok := ReadLockOwner(storeDir); ok {
				return nil, fmt.Errorf("%w: %s (pid=%d created_at=%s host=%s, remove %s if that session is gone)",
					errconsts.ErrStoreLocked, target, owner.PID, owner.CreatedAt, owner.Hostname, lockDir)
			}
			return nil, fmt.Errorf("%w: %s (remove %s if no session is running)", errconsts.ErrStoreLocked, target, lockDir)
		}
		return nil, fmt.Errorf("acquire lock for %s: %w", target, err)
	}

	owner := LockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	data, err := json.Marshal(owner)
	if err != nil {
		_ = os.Remove(lockDir)
		return nil, err
	}
	if err := writeAtomic(filepath.Join(lockDir, consts.LockOwnerFile), data); err != nil {
		_ = os.RemoveAll(lockDir)
		return nil, fmt.Errorf("write lock owner for %s: %w", target, err)
	}
	return &Lock{lockDir: lockDir}, nil
}

// ReadLockOwner returns the owner of an existing lock.
func ReadLockOwner(storeDir string) (LockOwner, bool) {
	var owner LockOwner
	data, err := os.ReadFile(filepath.Join(LockPath(storeDir), consts.LockOwnerFile))
	if err != nil {
		return owner, false
	}
	if err := json.Unmarshal(data, &owner); err != nil || owner.PID <= 0 || owner.CreatedAt == "" {
		return owner, false
	}
	return owner, true
}

// Release drops the lock. Safe to call on a nil lock.
func (l *Lock) Release() error {
	if l == nil || strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, consts.LockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
