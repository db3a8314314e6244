// Package ids generates document identifiers.
//
// The default generator produces 16 random characters drawn from
// [a-zA-Z0-9], roughly 10^28 combinations, which makes collisions within a
// single store's lifetime a non-concern. A UUID-based generator is available
// for deployments that want globally recognizable identifiers.
package ids

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// Generator produces a new unique identifier on each call.
// Implementations must be safe for concurrent use.
type Generator func() string

const (
	charset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLen = 16
)

// Token returns a 16-character alphanumeric identifier backed by crypto/rand.
func Token() string {
	return Alnum(tokenLen)
}

// Alnum returns n random characters from [a-zA-Z0-9].
func Alnum(n int) string {
	buf := make([]byte, n)
	// rand.Read never fails on supported platforms (it panics instead).
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf)
}

// UUID returns a random RFC 4122 UUID string.
func UUID() string {
	return uuid.NewString()
}
