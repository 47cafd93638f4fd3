package tb

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractLogArchive unpacks a .tar.gz log archive into a fresh temporary
// directory and returns the directory to pass to TensorBoard as logdir.
// If the archive holds a single top-level directory, that directory is
// returned instead of the extraction root.
func ExtractLogArchive(archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("archive not found: %s", archivePath)
		}
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("read archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	tmpdir, err := os.MkdirTemp("", "texrboard_logs_")
	if err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read archive %s: %w", archivePath, err)
		}

		name := filepath.FromSlash(hdr.Name)
		if !filepath.IsLocal(name) {
			return "", fmt.Errorf("archive entry escapes extraction dir: %s", hdr.Name)
		}
		dest := filepath.Join(tmpdir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return "", fmt.Errorf("extract %s: %w", hdr.Name, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return "", fmt.Errorf("extract %s: %w", hdr.Name, err)
			}
			if err := writeFile(dest, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return "", fmt.Errorf("extract %s: %w", hdr.Name, err)
			}
		default:
			// Symlinks, devices and the like have no business in a
			// TensorBoard log archive.
			continue
		}
	}

	return collapseSingleDir(tmpdir), nil
}

func writeFile(dest string, r io.Reader, perm os.FileMode) error {
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// collapseSingleDir descends into dir when it contains exactly one
// subdirectory and nothing else.
func collapseSingleDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	if strings.HasPrefix(entries[0].Name(), ".") {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}
