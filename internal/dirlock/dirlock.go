package dirlock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock for a directory.
var ErrLocked = errors.New("directory is locked by another foldersort run")

const retryDelay = 50 * time.Millisecond

// Lock is a held directory lock.
type Lock struct {
	target string
	path   string
	lock   *flock.Flock
}

// PathFor returns the lock file used for target inside lockDir. Symlinks are
// resolved when target exists, so every path to one directory shares a lock.
func PathFor(lockDir, target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", target, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("resolve %q: %w", target, err)
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:])[:16]+".lock"), nil
}

// Acquire takes the lock for target. With timeout <= 0 it tries once;
// otherwise it retries until the timeout elapses or ctx is done.
func Acquire(ctx context.Context, lockDir, target string, timeout time.Duration) (*Lock, error) {
	path, err := PathFor(lockDir, target)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	fl := flock.New(path)
	var ok bool
	if timeout <= 0 {
		ok, err = fl.TryLock()
	} else {
		if ctx == nil {
			ctx = context.Background()
		}
		lockCtx, cancel := context.WithTimeout(ctx, timeout)
		ok, err = fl.TryLockContext(lockCtx, retryDelay)
		cancel()
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, target)
	}
	return &Lock{target: target, path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Release unlocks. The lock file is left in place so concurrent waiters
// keep contending on the same inode.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock for %s: %w", l.target, err)
	}
	return nil
}
