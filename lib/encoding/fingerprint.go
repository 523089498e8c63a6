// Package encoding produces canonical byte forms of route params.
//
// Params decoded from different sources (a router, a JSON payload, user
// code) can carry the same values under different Go types. The canonical
// form packs them with msgpack using sorted map keys and compact numbers, so
// int(1), int64(1), uint8(1) and float64(1) all encode identically.
package encoding

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnencodable is returned when a value cannot be packed (funcs, chans).
var ErrUnencodable = errors.New("encoding: value cannot be canonicalized")

// Canonical returns the msgpack encoding of v with deterministic map order
// and minimal numeric widths.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	enc.UseCompactFloats(true)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnencodable, err)
	}
	return buf.Bytes(), nil
}

// Fingerprint returns a short URL-safe digest of the canonical form of v.
// Equal fingerprints mean canonically equal values.
func Fingerprint(v any) (string, error) {
	packed, err := Canonical(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(packed)
	return base64.RawURLEncoding.EncodeToString(sum[:16]), nil // 128 bits
}

// Equal reports whether a and b have the same canonical form. Values that
// cannot be canonicalized are never equal.
func Equal(a, b any) bool {
	pa, err := Canonical(a)
	if err != nil {
		return false
	}
	pb, err := Canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(pa, pb)
}
