package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyVerified copies src to a temporary file beside dst, reads the copy back
// to compare its size and SHA-256 digest with the source, and only then
// renames it over dst. A failed copy leaves dst untouched.
func CopyVerified(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	wantSum, wantSize, err := copyTo(src, dst, info.Mode().Perm())
	if err != nil {
		return err
	}
	tmp := dst + ".partial"
	defer os.Remove(tmp)

	gotSum, gotSize, err := digest(tmp)
	if err != nil {
		return fmt.Errorf("read back copy: %w", err)
	}
	if gotSize != wantSize {
		return fmt.Errorf("copy of %s is %d bytes, source is %d", filepath.Base(src), gotSize, wantSize)
	}
	if !bytes.Equal(gotSum, wantSum) {
		return fmt.Errorf("copy of %s does not match the source digest", filepath.Base(src))
	}
	return os.Rename(tmp, dst)
}

// copyTo writes src to dst+".partial" and returns the digest and size of the
// bytes read from src.
func copyTo(src, dst string, perm os.FileMode) ([]byte, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return nil, 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst+".partial", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return nil, 0, err
	}
	hash := sha256.New()
	n, err := io.Copy(out, io.TeeReader(in, hash))
	if err == nil {
		err = out.Sync()
	}
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst + ".partial")
		return nil, 0, fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return hash.Sum(nil), n, nil
}

func digest(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	hash := sha256.New()
	n, err := io.Copy(hash, f)
	if err != nil {
		return nil, 0, err
	}
	return hash.Sum(nil), n, nil
}
