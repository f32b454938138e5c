// Package extract unpacks release archives into the bin directory.
package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// ArchiveType represents the archive format of a release asset.
type ArchiveType string

const (
	// ArchiveTypeTarGz represents a gzipped tar archive (.tar.gz, .tgz).
	ArchiveTypeTarGz ArchiveType = "tar.gz"

	// ArchiveTypeTarXz represents an xz-compressed tar archive (.tar.xz).
	ArchiveTypeTarXz ArchiveType = "tar.xz"

	// ArchiveTypeZip represents a ZIP archive (.zip).
	ArchiveTypeZip ArchiveType = "zip"
)

// Detect detects the archive type from a URL or filename.
// Returns empty string when the type cannot be detected.
func Detect(urlOrFilename string) ArchiveType {
	name := strings.ToLower(filepath.Base(urlOrFilename))
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ArchiveTypeTarGz
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return ArchiveTypeTarXz
	case strings.HasSuffix(name, ".zip"):
		return ArchiveTypeZip
	default:
		return ""
	}
}

// Extractor unpacks an archive stream into a destination directory.
type Extractor interface {
	// Extract extracts an archive from the reader into destDir.
	// For tar archives any io.Reader streams; zip requires io.ReaderAt
	// (typically *os.File).
	Extract(r io.Reader, destDir string) error
}

// New creates an Extractor for the given archive type.
func New(archiveType ArchiveType) (Extractor, error) {
	switch archiveType {
	case ArchiveTypeTarGz:
		return &tarGzExtractor{}, nil
	case ArchiveTypeTarXz:
		return &tarXzExtractor{}, nil
	case ArchiveTypeZip:
		return &zipExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported archive type: %s", archiveType)
	}
}

var (
	_ Extractor = (*tarGzExtractor)(nil)
	_ Extractor = (*tarXzExtractor)(nil)
	_ Extractor = (*zipExtractor)(nil)
)

type tarGzExtractor struct{}

func (e *tarGzExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("extracting tar.gz archive", "dest", destDir)

	gr, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gr.Close()

	return extractTar(gr, destDir)
}

type tarXzExtractor struct{}

func (e *tarXzExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("extracting tar.xz archive", "dest", destDir)

	xr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to create xz reader: %w", err)
	}

	return extractTar(xr, destDir)
}

// extractTar extracts a tar stream into destDir.
func extractTar(r io.Reader, destDir string) error {
	tr := tar.NewReader(r)

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		target := filepath.Join(destDir, hdr.Name)

		// Security: prevent path traversal
		if !isInsideDir(destDir, target) {
			return fmt.Errorf("invalid file path: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, os.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeSymlink:
			linkTarget := filepath.Join(filepath.Dir(target), hdr.Linkname)
			if !isInsideDir(destDir, linkTarget) {
				return fmt.Errorf("invalid symlink target: %s -> %s", hdr.Name, hdr.Linkname)
			}
			os.Remove(target)
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return fmt.Errorf("failed to create symlink: %w", err)
			}
		}
	}

	return nil
}

type zipExtractor struct{}

// Extract extracts a zip archive. The reader must implement io.ReaderAt.
func (e *zipExtractor) Extract(r io.Reader, destDir string) error {
	slog.Debug("extracting zip archive", "dest", destDir)

	ra, ok := r.(io.ReaderAt)
	if !ok {
		return fmt.Errorf("zip extraction requires io.ReaderAt, got %T", r)
	}

	size, err := readerSize(r)
	if err != nil {
		return fmt.Errorf("failed to get reader size: %w", err)
	}

	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return fmt.Errorf("failed to create zip reader: %w", err)
	}

	for _, f := range zr.File {
		if isOSMetadataPath(f.Name) {
			continue
		}

		target := filepath.Join(destDir, f.Name)

		// Security: prevent path traversal
		if !isInsideDir(destDir, target) {
			return fmt.Errorf("invalid file path: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, f.Mode()); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open file in archive: %w", err)
		}

		if err := extractFile(rc, target, f.Mode()); err != nil {
			rc.Close()
			return err
		}
		rc.Close()
	}

	return nil
}

// readerSize returns the size of the reader.
func readerSize(r io.Reader) (int64, error) {
	switch v := r.(type) {
	case *os.File:
		info, err := v.Stat()
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	case interface{ Len() int }:
		return int64(v.Len()), nil
	default:
		return 0, fmt.Errorf("cannot determine size for %T", r)
	}
}

// extractFile writes a single file from an archive, replacing any
// existing file at the target path.
func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Remove first so a previous symlink at the path is not followed.
	os.Remove(target)

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// isOSMetadataPath reports archive entries belonging to OS metadata trees
// (the __MACOSX/ junk macOS ZIP tools inject).
func isOSMetadataPath(name string) bool {
	return name == "__MACOSX" || strings.HasPrefix(name, "__MACOSX/")
}

// isInsideDir checks that target stays inside baseDir.
func isInsideDir(baseDir, target string) bool {
	rel, err := filepath.Rel(baseDir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && len(rel) > 0 && rel[0] != '.'
}
