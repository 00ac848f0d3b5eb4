package anagram

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
)

// Digest names the hash a phrase checksum is computed with.
type Digest string

const (
	DigestMD5    Digest = "md5"
	DigestSHA1   Digest = "sha1"
	DigestSHA256 Digest = "sha256"
)

// ParseDigest returns the digest with the given name. An empty name selects md5.
func ParseDigest(name string) (Digest, error) {
	switch d := Digest(strings.ToLower(strings.TrimSpace(name))); d {
	case "":
		return DigestMD5, nil
	case DigestMD5, DigestSHA1, DigestSHA256:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDigest, name)
	}
}

func (d Digest) newHash() hash.Hash {
	switch d {
	case DigestSHA1:
		return sha1.New()
	case DigestSHA256:
		return sha256.New()
	default:
		return md5.New()
	}
}

// Sum returns the lowercase hex checksum of the UTF-8 bytes of phrase.
func (d Digest) Sum(phrase string) string {
	h := d.newHash()
	h.Write([]byte(phrase))
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeChecksum makes hex checksums comparable regardless of case.
// Malformed input is kept as is and simply never matches.
func normalizeChecksum(checksum string) string {
	return strings.ToLower(strings.TrimSpace(checksum))
}
