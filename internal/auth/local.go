// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/iotcentral/internal/session"
	"github.com/olegiv/iotcentral/internal/store"
)

// CaptchaVerifier checks a sign-up captcha token.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// LocalGateway keeps operators in SQLite and the signed-in user in the
// request's scs session. Its methods need a context loaded by the session
// manager's LoadAndSave middleware.
type LocalGateway struct {
	queries *store.Queries
	sm      *scs.SessionManager
	captcha CaptchaVerifier
	hash    func(string) (string, error)
	now     func() time.Time
}

// NewLocalGateway creates a gateway. A nil captcha skips verification.
func NewLocalGateway(db *sql.DB, sm *scs.SessionManager, captcha CaptchaVerifier) *LocalGateway {
	return &LocalGateway{
		queries: store.New(db),
		sm:      sm,
		captcha: captcha,
		hash:    HashPassword,
		now:     time.Now,
	}
}

// dummyHash keeps the unknown-email path as slow as a wrong password.
var dummyHash, _ = HashPassword("timing-equalizer")

// SignIn verifies credentials and stores the user in the session.
func (g *LocalGateway) SignIn(ctx context.Context, email, password string) (*User, error) {
	if err := ValidateSignIn(email, password); err != nil {
		return nil, err
	}

	row, err := g.queries.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		_, _ = CheckPassword(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	ok, err := CheckPassword(password, row.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	if err := g.startSession(ctx, row); err != nil {
		return nil, err
	}
	return toUser(row), nil
}

// SignUp validates the form, verifies the captcha, creates the account and signs it in.
func (g *LocalGateway) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g.captcha != nil {
		if err := g.captcha.Verify(ctx, req.CaptchaToken, req.RemoteIP); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCaptchaFailed, err)
		}
	}

	email := NormalizeEmail(req.Email)
	if _, err := g.queries.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := g.hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := g.now()
	row, err := g.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if err := g.startSession(ctx, row); err != nil {
		return nil, err
	}
	return toUser(row), nil
}

// SignInWithProvider is not supported by the local gateway.
func (g *LocalGateway) SignInWithProvider(_ context.Context, provider string) (*User, error) {
	return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, provider)
}

// SignOut destroys the session.
func (g *LocalGateway) SignOut(ctx context.Context) error {
	if err := g.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user or ErrNotSignedIn.
func (g *LocalGateway) CurrentUser(ctx context.Context) (*User, error) {
	id := g.sm.GetInt64(ctx, session.KeyUserID)
	if id == 0 {
		return nil, ErrNotSignedIn
	}
	row, err := g.queries.GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotSignedIn
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return toUser(row), nil
}

func (g *LocalGateway) startSession(ctx context.Context, row store.User) error {
	// New token on privilege change prevents session fixation.
	if err := g.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	u := toUser(row)
	g.sm.Put(ctx, session.KeyUserID, u.ID)
	g.sm.Put(ctx, session.KeyUserName, u.DisplayName())

	if err := g.queries.UpdateUserLastLogin(ctx, row.ID, g.now()); err != nil {
		return fmt.Errorf("recording login: %w", err)
	}
	return nil
}

func toUser(row store.User) *User {
	return &User{ID: row.ID, Email: row.Email, FirstName: row.FirstName, LastName: row.LastName}
}

var _ AuthGateway = (*LocalGateway)(nil)
