package plugin

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// packageStem returns the destination basename for a package path:
// the file name with its final extension (.scpl, .zip) removed.
func packageStem(pkgPath string) string {
	base := filepath.Base(pkgPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// validatePackage checks that the archive carries the registration
// entry point at its root.
func validatePackage(r *zip.Reader) error {
	for _, f := range r.File {
		if f.Name == EntrypointName {
			return nil
		}
	}
	return ErrInvalidPackage
}

// extractPackage extracts the full archive contents into dest. Entries
// that would escape dest (zip-slip) are rejected.
func extractPackage(r *zip.Reader, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf("create plugin directory: %w", err)
	}

	for _, f := range r.File {
		target, err := securePath(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("extract %s: %w", f.Name, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}

	return nil
}

// securePath joins an archive entry name onto dest, rejecting entries
// that resolve outside it.
func securePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if target != dest && !strings.HasPrefix(target, dest+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes destination", ErrInvalidPackage, name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return nil
}
