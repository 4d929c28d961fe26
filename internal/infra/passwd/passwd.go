// Package passwd computes and checks salted password digests. Hashing is
// deliberately slow; Pool moves that work off the calling goroutine.
package passwd

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrMalformedDigest  = errors.New("malformed password digest")
	ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")
)

const (
	AlgBcrypt   = "bcrypt"
	AlgArgon2id = "argon2id"
)

type Hasher interface {
	Hash(pw string) (string, error)
	Verify(pw, enc string) (bool, error)
}

// Dispatch hashes new passwords with Primary and verifies any digest whose
// format it recognises, whichever algorithm produced it.
type Dispatch struct {
	Primary Hasher
	Bcrypt  Bcrypt
	Argon2  Argon2

	mu      sync.Mutex
	dummies map[string]string
}

// New returns a Dispatch hashing with the named algorithm.
func New(alg string, bcryptCost int) (*Dispatch, error) {
	d := &Dispatch{
		Bcrypt: Bcrypt{Cost: bcryptCost},
		Argon2: DefaultArgon2(),
	}
	switch alg {
	case AlgBcrypt, "":
		d.Primary = d.Bcrypt
	case AlgArgon2id:
		d.Primary = d.Argon2
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	return d, nil
}

func (d *Dispatch) Hash(pw string) (string, error) {
	return d.Primary.Hash(pw)
}

func (d *Dispatch) Verify(pw, enc string) (bool, error) {
	switch {
	case strings.HasPrefix(enc, argon2Prefix):
		return d.Argon2.Verify(pw, enc)
	case strings.HasPrefix(enc, "$2a$"), strings.HasPrefix(enc, "$2b$"), strings.HasPrefix(enc, "$2y$"):
		return d.Bcrypt.Verify(pw, enc)
	}
	return false, ErrUnknownAlgorithm
}
