// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Demo operator credentials seeded in development.
const (
	DemoEmail     = "operator@example.com"
	DemoPassword  = "changeme"
	DemoFirstName = "Demo"
	DemoLastName  = "Operator"
)

// SeedDemoOperator creates the demo operator account if no account exists.
// hash turns the plain password into a stored hash.
func SeedDemoOperator(ctx context.Context, db *sql.DB, hash func(string) (string, error)) error {
	queries := New(db)

	n, err := queries.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		slog.Info("users already exist, skipping demo seed")
		return nil
	}

	passwordHash, err := hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DemoEmail,
		PasswordHash: passwordHash,
		FirstName:    DemoFirstName,
		LastName:     DemoLastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating demo operator: %w", err)
	}

	slog.Info("created demo operator", "id", user.ID, "email", user.Email, "password", DemoPassword)
	return nil
}
