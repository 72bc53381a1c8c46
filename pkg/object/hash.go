package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// HashSize is the length of a raw digest in bytes.
const HashSize = sha1.Size

// HashHexSize is the length of a hex-encoded digest.
const HashHexSize = 2 * HashSize

// Digest computes the SHA-1 of an already framed object ("type len\0content")
// and returns it as a lowercase hex-encoded Hash.
func Digest(framed []byte) Hash {
	sum := sha1.Sum(framed)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-1 of the envelope "type len\0content" without
// materializing the framed buffer.
func HashObject(objType ObjectType, data []byte) Hash {
	h := sha1.New()
	h.Write(header(objType, len(data)))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// ParseHash validates a full-length hex id.
func ParseHash(s string) (Hash, error) {
	if !isHexHashComponent(s, HashHexSize) {
		return "", fmt.Errorf("%w: invalid object id %q", ErrMalformedObject, s)
	}
	return Hash(s), nil
}

// HashFromRaw converts a raw 20-byte digest into its hex form.
func HashFromRaw(raw []byte) (Hash, error) {
	if len(raw) != HashSize {
		return "", fmt.Errorf("%w: raw digest has %d bytes, want %d", ErrMalformedObject, len(raw), HashSize)
	}
	return Hash(hex.EncodeToString(raw)), nil
}

// Raw decodes the hash into its 20 raw bytes.
func (h Hash) Raw() ([HashSize]byte, error) {
	var out [HashSize]byte
	if len(h) != HashHexSize {
		return out, fmt.Errorf("%w: invalid object id %q", ErrMalformedObject, string(h))
	}
	if _, err := hex.Decode(out[:], []byte(h)); err != nil {
		return out, fmt.Errorf("%w: invalid object id %q: %v", ErrMalformedObject, string(h), err)
	}
	return out, nil
}

// Short returns the abbreviated form used in log output.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

func isHexHashComponent(s string, n int) bool {
	if len(s) != n {
		return false
	}
	return isLowerHex(s)
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
