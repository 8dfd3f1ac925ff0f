package service

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/Payphone-Digital/hospital-registry/config"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hides the hashing algorithm from the credential store.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports a mismatch as (false, nil). An error means the stored hash is unusable.
	Verify(plain, encoded string) (bool, error)
	// NeedsRehash reports whether encoded was produced by another algorithm or other parameters.
	NeedsRehash(encoded string) bool
}

var ErrInvalidHash = errors.New("password: invalid encoded hash")

const (
	argonSaltLength = 16
	argonKeyLength  = 32
)

// Argon2idHasher writes PHC strings:
// $argon2id$v=19$m=65536,t=4,p=1$<salt>$<hash>
// It also verifies bcrypt hashes ($2a$, $2b$, $2y$) so older rows keep working.
type Argon2idHasher struct {
	memory  uint32
	time    uint32
	threads uint8
}

func NewArgon2idHasher(cfg config.PasswordConfig) *Argon2idHasher {
	return &Argon2idHasher{
		memory:  cfg.Memory,
		time:    cfg.Time,
		threads: cfg.Threads,
	}
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

func (h *Argon2idHasher) Hash(plain string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(plain), salt, h.time, h.memory, h.threads, argonKeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2idHasher) Verify(plain, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plain))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("%w: %v", ErrInvalidHash, err)
		}
	}

	p, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(plain), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

func (h *Argon2idHasher) NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	p, err := decodeArgon2id(encoded)
	if err != nil {
		return true
	}
	return p.memory != h.memory || p.time != h.time || p.threads != h.threads || len(p.key) != argonKeyLength
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$")
}

func decodeArgon2id(encoded string) (*argonParams, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, ErrInvalidHash
	}

	p := &argonParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, ErrInvalidHash
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return nil, ErrInvalidHash
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, ErrInvalidHash
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 {
		return nil, ErrInvalidHash
	}
	return p, nil
}
