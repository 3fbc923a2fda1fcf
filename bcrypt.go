package auth

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes passwords with bcrypt at the configured cost
type BcryptHasher struct {
	Cost int
}

var _ PasswordHasher = BcryptHasher{}

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// range bcrypt accepts fall back to the package default.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = passwordHashCost()
	}
	return BcryptHasher{Cost: cost}
}

// HashPassword will generate a salted password hash
func (h BcryptHasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	cost := h.Cost
	if cost == 0 {
		cost = passwordHashCost()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", goerrors.Wrap(err, goerrors.CategoryValidation, "password is too long").
				WithTextCode(TextCodeBadRequest).
				WithCode(goerrors.CodeBadRequest)
		}
		return "", internalError(err, "failed to hash password")
	}

	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. Malformed hashes
// never match.
func (h BcryptHasher) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword will generate a password hash with the default bcrypt cost
func HashPassword(password string) (string, error) {
	return BcryptHasher{}.HashPassword(password)
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if !(BcryptHasher{}).VerifyPassword(password, hash) {
		return ErrInvalidCredentials
	}
	return nil
}

// RandomPasswordHash hashes a random secret with the given hasher. The result
// matches no password a caller could submit.
func RandomPasswordHash(hasher PasswordHasher) string {
	h, err := hasher.HashPassword(uuid.NewString())
	if err != nil {
		return RandomPasswordHash(BcryptHasher{Cost: bcrypt.MinCost})
	}

	return h
}
