package passwd

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const dummyPassword = "booking-dummy-password"

// Dummy returns a digest of a throwaway password produced with the same
// algorithm and cost parameters as like, so checking a password against it
// takes as long as checking against like. An empty or unrecognised like
// gets a digest made the way new passwords are hashed. Results are cached
// per parameter set.
func (d *Dispatch) Dummy(like string) (string, error) {
	h, shape := d.hasherLike(like)

	d.mu.Lock()
	v, ok := d.dummies[shape]
	d.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := h.Hash(dummyPassword)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	if d.dummies == nil {
		d.dummies = make(map[string]string)
	}
	d.dummies[shape] = v
	d.mu.Unlock()
	return v, nil
}

func (d *Dispatch) hasherLike(like string) (Hasher, string) {
	if strings.HasPrefix(like, argon2Prefix) {
		if a, ok := argon2Params(like, d.Argon2.SaltLen); ok {
			return a, fmt.Sprintf("argon2id$%d$%d$%d$%d", a.Time, a.Memory, a.Threads, a.KeyLen)
		}
	}
	if cost, err := bcrypt.Cost([]byte(like)); err == nil {
		return Bcrypt{Cost: cost}, fmt.Sprintf("bcrypt$%d", cost)
	}
	return d.Primary, "primary"
}

func argon2Params(enc string, saltLen int) (Argon2, bool) {
	parts := strings.Split(enc, "$")
	if len(parts) != 7 {
		return Argon2{}, false
	}
	t, err := parseUint(parts[1], 32)
	if err != nil {
		return Argon2{}, false
	}
	m, err := parseUint(parts[2], 32)
	if err != nil {
		return Argon2{}, false
	}
	p, err := parseUint(parts[3], 8)
	if err != nil {
		return Argon2{}, false
	}
	k, err := parseUint(parts[4], 32)
	if err != nil {
		return Argon2{}, false
	}
	if saltLen <= 0 {
		saltLen = 16
	}
	return Argon2{
		Time:    uint32(t),
		Memory:  uint32(m),
		Threads: uint8(p),
		KeyLen:  uint32(k),
		SaltLen: saltLen,
	}, true
}

type dummyMaker interface {
	Dummy(like string) (string, error)
}

// Dummy is Dispatch.Dummy run on the pool. A Hasher without its own Dummy
// gets a plain hash of the throwaway password.
func (p *Pool) Dummy(ctx context.Context, like string) (string, error) {
	res, err := p.run(ctx, func() hashResult {
		var (
			d   string
			err error
		)
		if dm, ok := p.h.(dummyMaker); ok {
			d, err = dm.Dummy(like)
		} else {
			d, err = p.h.Hash(dummyPassword)
		}
		return hashResult{digest: d, err: err}
	})
	if err != nil {
		return "", err
	}
	return res.digest, res.err
}
