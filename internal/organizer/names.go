package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SplitName splits a file name at its last dot. Leading dots do not start an
// extension, so ".bashrc" has none while "archive.tar.gz" yields ".gz".
func SplitName(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || strings.TrimLeft(name[:i], ".") == "" {
		return name, ""
	}
	return name[:i], name[i:]
}

// CollisionName builds the n-th alternative name for stem+ext.
func CollisionName(stem, ext string, n int) string {
	return fmt.Sprintf("%s (%d)%s", stem, n, ext)
}

// nextFreePath returns destDir/name, or the first "stem (n)ext" variant that
// neither exists on disk nor appears in reserved.
func nextFreePath(destDir, name, stem, ext string, reserved map[string]struct{}) (string, bool, error) {
	candidate := filepath.Join(destDir, name)
	for n := 1; ; n++ {
		taken, err := pathTaken(candidate, reserved)
		if err != nil {
			return "", false, err
		}
		if !taken {
			return candidate, n > 1, nil
		}
		candidate = filepath.Join(destDir, CollisionName(stem, ext, n))
	}
}

func pathTaken(path string, reserved map[string]struct{}) (bool, error) {
	if _, ok := reserved[path]; ok {
		return true, nil
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
