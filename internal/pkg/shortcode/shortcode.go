// Package shortcode generates random, fixed-length base62 short codes.
package shortcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Alphabet is the ordered base62 digit set: digits, lowercase, uppercase.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	primaryBytes   = 12
	secondaryBytes = 8
	padChar        = '0'
)

var ErrInvalidLength = errors.New("short code length must be positive")

// Generator produces a short code of exactly the requested length.
type Generator func(length int) (string, error)

var base = big.NewInt(int64(len(Alphabet)))

// Encode treats b as a big-endian unsigned integer and renders it in base62,
// most significant digit first. Zero encodes as the first alphabet symbol.
func Encode(b []byte) string {
	n := new(big.Int).SetBytes(b)
	if n.Sign() == 0 {
		return Alphabet[:1]
	}

	var out []byte
	mod := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, Alphabet[mod.Int64()])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Generate returns a code drawn from crypto/rand.
func Generate(length int) (string, error) {
	return generate(rand.Reader, length)
}

// NewGenerator returns a Generator reading entropy from r.
func NewGenerator(r io.Reader) Generator {
	return func(length int) (string, error) {
		return generate(r, length)
	}
}

func generate(r io.Reader, length int) (string, error) {
	if length < 1 {
		return "", ErrInvalidLength
	}

	primary, err := draw(r, primaryBytes)
	if err != nil {
		return "", err
	}

	encoded := Encode(primary)
	if len(encoded) >= length {
		return encoded[:length], nil
	}

	extra, err := draw(r, secondaryBytes)
	if err != nil {
		return "", err
	}

	code := encoded + Encode(extra)
	if len(code) >= length {
		return code[:length], nil
	}
	return code + strings.Repeat(string(padChar), length-len(code)), nil
}

func draw(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// IsValid reports whether code is non-empty and uses only Alphabet symbols.
func IsValid(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
