package dirlock_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"foldersort/internal/dirlock"
)

func TestAcquireAndRelease(t *testing.T) {
	lockDir := filepath.Join(t.TempDir(), "locks")
	target := t.TempDir()

	lock, err := dirlock.Acquire(context.Background(), lockDir, target, 0)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if filepath.Dir(lock.Path()) != lockDir || !strings.HasSuffix(lock.Path(), ".lock") {
		t.Fatalf("unexpected lock path %q", lock.Path())
	}

	if _, err := dirlock.Acquire(context.Background(), lockDir, target, 0); !errors.Is(err, dirlock.ErrLocked) {
		t.Fatalf("second Acquire err = %v, want ErrLocked", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := dirlock.Acquire(context.Background(), lockDir, target, 0)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestAcquireTimesOut(t *testing.T) {
	lockDir := t.TempDir()
	target := t.TempDir()

	held, err := dirlock.Acquire(context.Background(), lockDir, target, 0)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()

	start := time.Now()
	_, err = dirlock.Acquire(context.Background(), lockDir, target, 150*time.Millisecond)
	if !errors.Is(err, dirlock.ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("returned after %s, expected to wait for the timeout", elapsed)
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	lockDir := t.TempDir()
	target := t.TempDir()

	held, err := dirlock.Acquire(context.Background(), lockDir, target, 0)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = held.Release()
	}()

	lock, err := dirlock.Acquire(context.Background(), lockDir, target, 2*time.Second)
	if err != nil {
		t.Fatalf("Acquire with timeout: %v", err)
	}
	_ = lock.Release()
}

func TestDistinctTargetsDoNotContend(t *testing.T) {
	lockDir := t.TempDir()
	a, err := dirlock.Acquire(context.Background(), lockDir, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Acquire a: %v", err)
	}
	defer a.Release()
	b, err := dirlock.Acquire(context.Background(), lockDir, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Acquire b: %v", err)
	}
	defer b.Release()
}

func TestPathForIsStable(t *testing.T) {
	dir := t.TempDir()
	first, err := dirlock.PathFor("/locks", dir)
	if err != nil {
		t.Fatal(err)
	}
	second, err := dirlock.PathFor("/locks", dir+string(filepath.Separator))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("lock path differs for equivalent targets: %q vs %q", first, second)
	}
}

func TestSymlinkedTargetsShareLock(t *testing.T) {
	lockDir := t.TempDir()
	target := t.TempDir()
	link := filepath.Join(t.TempDir(), "alias")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	direct, err := dirlock.PathFor(lockDir, target)
	if err != nil {
		t.Fatal(err)
	}
	viaLink, err := dirlock.PathFor(lockDir, link)
	if err != nil {
		t.Fatal(err)
	}
	if direct != viaLink {
		t.Fatalf("lock path differs through symlink: %q vs %q", direct, viaLink)
	}

	held, err := dirlock.Acquire(context.Background(), lockDir, target, 0)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer held.Release()
	if _, err := dirlock.Acquire(context.Background(), lockDir, link, 0); !errors.Is(err, dirlock.ErrLocked) {
		t.Fatalf("Acquire via symlink err = %v, want ErrLocked", err)
	}
}

func TestPathForMissingTarget(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "not-yet")
	if _, err := dirlock.PathFor(t.TempDir(), missing); err != nil {
		t.Fatalf("PathFor on missing target: %v", err)
	}
}
