package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultRegisterUserTimeout bounds a single registration
const DefaultRegisterUserTimeout = 10 * time.Second

type RegisterUserMessage struct {
	IdentityKey string `json:"identity_key"`
	Password    string `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// RegisterUserHandler hashes the password and atomically stores a new record
type RegisterUserHandler struct {
	store   CredentialStore
	hasher  PasswordHasher
	timeout time.Duration
}

func NewRegisterUserHandler(store CredentialStore, hasher PasswordHasher) *RegisterUserHandler {
	return &RegisterUserHandler{
		store:   store,
		hasher:  hasher,
		timeout: DefaultRegisterUserTimeout,
	}
}

// WithTimeout overrides the registration timeout. Non-positive values are ignored.
func (h *RegisterUserHandler) WithTimeout(timeout time.Duration) *RegisterUserHandler {
	if timeout > 0 {
		h.timeout = timeout
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	// blank keys fail before paying for a hash
	if err := validateIdentityKey(event.IdentityKey); err != nil {
		return err
	}

	hash, err := h.hasher.HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) && richErr.Category != goerrors.CategoryInternal {
			return richErr
		}
		return internalError(err, "failed to hash password")
	}

	record, err := NewCredentialRecord(event.IdentityKey, hash)
	if err != nil {
		return err
	}

	if err := h.store.InsertIfAbsent(ctx, record); err != nil {
		if IsConflict(err) {
			return ErrIdentityExists
		}
		return internalError(err, "could not create credential record")
	}

	return nil
}
