// Package checksum verifies downloaded release archives against the sha256
// sidecar files some releases publish. Verification only happens when a
// sidecar exists; a published checksum that does not match is fatal.
package checksum

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sha256HexLen is the length of a hex-encoded sha256 digest.
const sha256HexLen = 64

// Calculate returns the hex sha256 digest of the file at path.
func Calculate(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ParseSidecar extracts the digest for filename from sidecar content.
// Two formats occur in the wild: a bare hash ("<hex>\n") and GNU coreutils
// lines ("<hex>  <filename>" with an optional * binary marker).
func ParseSidecar(content []byte, filename string) (string, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(content)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		switch {
		case len(parts) == 1 && isSHA256Hex(parts[0]):
			return strings.ToLower(parts[0]), nil
		case len(parts) >= 2 && isSHA256Hex(parts[0]):
			file := strings.TrimPrefix(parts[1], "*")
			if file == filename || filepath.Base(file) == filename {
				return strings.ToLower(parts[0]), nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read checksum content: %w", err)
	}

	return "", fmt.Errorf("no sha256 digest for %q in checksum content", filename)
}

// Verify compares the file at path against an expected hex digest.
func Verify(path, expected string) error {
	actual, err := Calculate(path)
	if err != nil {
		return err
	}
	if actual != strings.ToLower(expected) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s",
			filepath.Base(path), expected, actual)
	}
	return nil
}

// isSHA256Hex reports whether s looks like a hex sha256 digest.
func isSHA256Hex(s string) bool {
	if len(s) != sha256HexLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
