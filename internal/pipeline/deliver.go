package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CopyToDir copies src into dir under the same base name and returns the
// destination path. An existing file there is replaced. When dir already
// holds src the file is left as is.
func CopyToDir(src, dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("missing delivery directory (DELIVERY_DIR)")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filepath.Base(src))

	srcInfo, err := os.Stat(src)
	if err != nil {
		return "", err
	}
	if dstInfo, err := os.Stat(dst); err == nil && os.SameFile(srcInfo, dstInfo) {
		return dst, nil
	}

	if err := copyViaTemp(src, dst); err != nil {
		return "", fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return dst, nil
}

// copyViaTemp writes next to dst and renames over it, so dst is either the
// old file or the complete copy.
func copyViaTemp(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
