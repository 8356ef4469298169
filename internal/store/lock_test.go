package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	builder "ytdl/internal/command/builder"
	"ytdl/internal/domain/errconsts"
)

func TestAcquireLockRejectsSecondSession(t *testing.T) {
	t.Parallel()

	storeDir := filepath.Join(t.TempDir(), "temp")
	first, err := AcquireLock(storeDir)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	owner, ok := ReadLockOwner(storeDir)
	if !ok || owner.PID != os.Getpid() {
		t.Fatalf("owner = %+v, ok = %v", owner, ok)
	}

	_, err = AcquireLock(storeDir)
	if !errors.Is(err, errconsts.ErrStoreLocked) {
		t.Fatalf("second acquire err = %v, want ErrStoreLocked", err)
	}
	if !strings.Contains(err.Error(), "pid=") {
		t.Fatalf("error should describe the owner: %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	again, err := AcquireLock(storeDir)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestLockDoesNotLiveInsideStore(t *testing.T) {
	t.Parallel()

	storeDir := filepath.Join(t.TempDir(), "temp")
	l, err := AcquireLock(storeDir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	s := New(storeDir, nil, builder.Common{})
	if empty, err := s.IsEmpty(); err != nil || !empty {
		t.Fatalf("lock must not make the store non-empty: %v, %v", empty, err)
	}
	if err := s.Prune(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseNilLock(t *testing.T) {
	t.Parallel()

	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("nil release: %v", err)
	}
}
