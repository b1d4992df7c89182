// Package hashing implements the content verifier: streaming digest
// computation and file verification against manifest-declared hashes.
package hashing

import (
	"crypto/sha1" //nolint:gosec // sha1 is a manifest interop format, not used for security decisions
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/glacier-launcher/glacier/pkg/errors"
)

// DefaultAlgorithm is the universally-available fallback algorithm.
const DefaultAlgorithm = "sha1"

// chunkSize bounds the read buffer so digesting never loads a whole file
// into memory.
const chunkSize = 1 << 20 // 1 MiB

// newHasher returns a hash.Hash for the named algorithm.
func newHasher(algorithm string) (hash.Hash, error) {
	switch strings.ToLower(algorithm) {
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownHashAlgorithm, "%q", algorithm)
	}
}

// Supported reports whether the algorithm is known to the verifier.
func Supported(algorithm string) bool {
	_, err := newHasher(algorithm)
	return err == nil
}

// Digest streams r through the named algorithm and returns the lowercase hex
// digest.
func Digest(r io.Reader, algorithm string) (string, error) {
	h, err := newHasher(algorithm)
	if err != nil {
		return "", err
	}
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", errors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestFile computes the digest of the file at path.
func DigestFile(path, algorithm string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "open %s for hashing", path)
	}
	defer func() { _ = f.Close() }()
	return Digest(f, algorithm)
}

// VerifyFile reports whether the file at path has the expected hex digest
// under the named algorithm. An unreadable file is an error, never a
// successful verification.
func VerifyFile(path, algorithm, expectedHex string) (bool, error) {
	got, err := DigestFile(path, algorithm)
	if err != nil {
		return false, err
	}
	return got == normalizeHex(expectedHex), nil
}

func normalizeHex(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
