package binary

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	apperrors "github.com/secretscout-io/secretscout/pkg/shared/errors"
	"github.com/secretscout-io/secretscout/pkg/shared/files"
)

// maxEntrySize bounds a single extracted file; gitleaks binaries are well below it.
const maxEntrySize = 512 << 20

func extractTarGz(data []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to open gzip stream", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to read tar entry", err)
		}

		target, err := files.EnsureWithinRoot(dest, hdr.Name)
		if err != nil {
			return apperrors.NewBinaryError(apperrors.ExtractionFailed, "unsafe entry", err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to create dir", err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		}
	}
}

func extractZip(data []byte, dest string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to open zip", err)
	}

	for _, f := range zr.File {
		target, err := files.EnsureWithinRoot(dest, f.Name)
		if err != nil {
			return apperrors.NewBinaryError(apperrors.ExtractionFailed, "unsafe entry", err)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to create dir", err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to read zip entry", err)
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to create parent dir", err)
	}
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to create file", err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(r, maxEntrySize+1))
	if err != nil {
		return apperrors.NewBinaryError(apperrors.ExtractionFailed, "failed to write file", err)
	}
	if n > maxEntrySize {
		return apperrors.NewBinaryError(apperrors.ExtractionFailed, fmt.Sprintf("entry %s exceeds %d bytes", filepath.Base(target), maxEntrySize), nil)
	}
	return nil
}
