package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned for every failed verification, whatever
// the underlying cause, so callers cannot tell a bad hash from a bad guess.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordParams are the Argon2id cost parameters.
type PasswordParams struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultPasswordParams follow the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultPasswordParams = PasswordParams{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// PasswordHasher hashes and verifies passwords. The pepper is mixed into
// every hash and never stored alongside it.
type PasswordHasher struct {
	Pepper string
	Params PasswordParams
}

// NewPasswordHasher returns a hasher using DefaultPasswordParams.
func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{Pepper: pepper, Params: DefaultPasswordParams}
}

func (h *PasswordHasher) params() PasswordParams {
	p := h.Params
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		p = DefaultPasswordParams
	}
	if p.KeyLength == 0 {
		p.KeyLength = DefaultPasswordParams.KeyLength
	}
	if p.SaltLength == 0 {
		p.SaltLength = DefaultPasswordParams.SaltLength
	}
	return p
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	p := h.params()

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	key := argon2.IDKey([]byte(password+h.Pepper), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify compares password against an encoded hash. Argon2id hashes are
// checked with the pepper; bcrypt hashes (users imported from the old
// service) are checked without it. Any parse or compute failure is reported
// as ErrPasswordMismatch.
func (h *PasswordHasher) Verify(password, encodedHash string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPasswordMismatch
		}
	}()

	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return h.verifyArgon2id(password, encodedHash)
	case isBcryptHash(encodedHash):
		if bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) != nil {
			return ErrPasswordMismatch
		}
		return nil
	default:
		return ErrPasswordMismatch
	}
}

// Matches is Verify as a predicate.
func (h *PasswordHasher) Matches(password, encodedHash string) bool {
	return h.Verify(password, encodedHash) == nil
}

// NeedsRehash reports whether encodedHash was produced by another algorithm
// or with different cost parameters than the hasher's current ones.
func (h *PasswordHasher) NeedsRehash(encodedHash string) bool {
	p := h.params()
	want := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$", argon2.Version, p.Memory, p.Iterations, p.Parallelism)
	return !strings.HasPrefix(encodedHash, want)
}

func (h *PasswordHasher) verifyArgon2id(password, encodedHash string) error {
	// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrPasswordMismatch
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return ErrPasswordMismatch
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return ErrPasswordMismatch
	}
	if mem == 0 || iters == 0 || par == 0 {
		return ErrPasswordMismatch
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrPasswordMismatch
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return ErrPasswordMismatch
	}

	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - decoded hash length is small
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrPasswordMismatch
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// GeneratePassword returns a random 16 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 16
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
