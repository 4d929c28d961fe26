package passwd

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "argon2id$"

// Argon2 hashes into "argon2id$t$m$p$k$salt$hash". The parameters used for a
// digest travel with it, so changing them does not invalidate stored digests.
type Argon2 struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
	SaltLen int
}

func DefaultArgon2() Argon2 {
	return Argon2{
		Time:    1,
		Memory:  64 * 1024,
		Threads: 4,
		KeyLen:  32,
		SaltLen: 16,
	}
}

func (a Argon2) Hash(pw string) (string, error) {
	salt := make([]byte, a.SaltLen)
	_, err := rand.Read(salt)
	if err != nil {
		return "", err
	}

	h := argon2.IDKey([]byte(pw), salt, a.Time, a.Memory, a.Threads, a.KeyLen)

	sEnc := base64.RawStdEncoding.EncodeToString(salt)
	hEnc := base64.RawStdEncoding.EncodeToString(h)

	v := fmt.Sprintf("argon2id$%d$%d$%d$%d$%s$%s", a.Time, a.Memory, a.Threads, a.KeyLen, sEnc, hEnc)
	return v, nil
}

func (a Argon2) Verify(pw, enc string) (bool, error) {
	parts := strings.Split(enc, "$")
	if len(parts) != 7 {
		return false, ErrMalformedDigest
	}
	if parts[0] != "argon2id" {
		return false, ErrUnknownAlgorithm
	}

	t, err := parseUint(parts[1], 32)
	if err != nil {
		return false, err
	}
	m, err := parseUint(parts[2], 32)
	if err != nil {
		return false, err
	}
	p, err := parseUint(parts[3], 8)
	if err != nil {
		return false, err
	}
	k, err := parseUint(parts[4], 32)
	if err != nil {
		return false, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("%w: salt: %v", ErrMalformedDigest, err)
	}
	have, err := base64.RawStdEncoding.DecodeString(parts[6])
	if err != nil {
		return false, fmt.Errorf("%w: hash: %v", ErrMalformedDigest, err)
	}
	if uint64(len(have)) != k {
		return false, fmt.Errorf("%w: key length", ErrMalformedDigest)
	}

	want := argon2.IDKey([]byte(pw), salt, uint32(t), uint32(m), uint8(p), uint32(k))

	ok := subtle.ConstantTimeCompare(want, have) == 1
	return ok, nil
}

func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: parameter %q", ErrMalformedDigest, s)
	}
	return v, nil
}
