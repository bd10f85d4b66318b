package keymanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ubuygold/recordkeeper/internal/auth"
	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/model"
)

const (
	// CreatedOnLayout is the layout of AuthenticationKey.CreatedOn, before the zone label.
	CreatedOnLayout = "2006-01-02 15:04:05"
	// usernameRule mirrors the width of the username column.
	usernameRule = "max=255"
)

// issuanceZone is a fixed UTC-5 zone; it never observes daylight saving.
var issuanceZone = time.FixedZone("EST", -5*60*60)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrInvalidUsername = errors.New("username is too long")
	ErrUsernameTaken   = errors.New("username already used")
)

// Issuer mints API keys for usernames.
type Issuer interface {
	IssueKey(ctx context.Context, username string) (*model.AuthenticationKey, error)
}

// KeyManager issues API keys. Each username can hold exactly one key.
type KeyManager struct {
	db        db.Service
	logger    *slog.Logger
	validator *validator.Validate
	now       func() time.Time
	generate  func() (string, error)
}

// NewKeyManager creates a new KeyManager.
func NewKeyManager(dbService db.Service, logger *slog.Logger) *KeyManager {
	return &KeyManager{
		db:        dbService,
		logger:    logger.With("component", "keymanager"),
		validator: validator.New(),
		now:       time.Now,
		generate:  auth.GenerateKey,
	}
}

// IssueKey creates and stores a new key for username.
func (km *KeyManager) IssueKey(ctx context.Context, username string) (*model.AuthenticationKey, error) {
	if username == "" {
		return nil, ErrMissingUsername
	}
	if err := km.validator.Var(username, usernameRule); err != nil {
		return nil, ErrInvalidUsername
	}

	_, err := km.db.FindAuthenticationKeyByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username %s: %w", username, err)
	}

	token, err := km.generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}

	key := &model.AuthenticationKey{
		Username:  username,
		Key:       token,
		CreatedOn: FormatCreatedOn(km.now()),
	}

	// The unique index settles concurrent issuance for the same username.
	if err := km.db.CreateAuthenticationKey(ctx, key); err != nil {
		if errors.Is(err, db.ErrDuplicate) && km.usernameTaken(ctx, username) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to store API key for %s: %w", username, err)
	}

	km.logger.Info("Issued API key", "username", username, "key_id", key.ID)
	return key, nil
}

// usernameTaken reports whether a duplicate came from the username index
// rather than the key index.
func (km *KeyManager) usernameTaken(ctx context.Context, username string) bool {
	_, err := km.db.FindAuthenticationKeyByUsername(ctx, username)
	return err == nil
}

// FormatCreatedOn renders t in the issuance zone, e.g. "2024-01-02 03:04:05 EST".
func FormatCreatedOn(t time.Time) string {
	return t.In(issuanceZone).Format(CreatedOnLayout) + " EST"
}
