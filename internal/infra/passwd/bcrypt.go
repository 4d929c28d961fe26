package passwd

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost keeps a single verification in the tens of milliseconds.
const DefaultBcryptCost = 10

type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), b.Cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b Bcrypt) Verify(pw, enc string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(enc), []byte(pw))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
