package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrChecksumMismatch = errors.New("invalid checksum")

// Sha256Sum hashes everything read from r and returns the hex digest.
func Sha256Sum(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Sha256SumFile computes the SHA-256 checksum for a given file path.
func Sha256SumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return Sha256Sum(file)
}

// Sha256SumVerify compares the digest of r with checksum, case-insensitively.
func Sha256SumVerify(r io.Reader, checksum string) error {
	got, err := Sha256Sum(r)
	if err != nil {
		return err
	}
	if !strings.EqualFold(strings.TrimSpace(checksum), got) {
		return ErrChecksumMismatch
	}
	return nil
}
