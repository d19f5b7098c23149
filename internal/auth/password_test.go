// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}

	ok, err := CheckPassword("correct horse", hash)
	if err != nil || !ok {
		t.Errorf("CheckPassword(correct) = %v, %v", ok, err)
	}
	ok, err = CheckPassword("wrong", hash)
	if err != nil || ok {
		t.Errorf("CheckPassword(wrong) = %v, %v", ok, err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("hashes of the same password should differ")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$x$y$z$w", "$argon2id$v=19$m=x$salt$key", "$argon2id$v=19$m=1,t=1,p=1$!!$key"} {
		if _, err := CheckPassword("x", h); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("CheckPassword(%q) err = %v, want ErrInvalidHash", h, err)
		}
	}
}

func TestParams_NeedsRehash(t *testing.T) {
	cheap := Params{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8}
	hash, err := cheap.Hash("pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !DefaultParams.NeedsRehash(hash) {
		t.Error("cheap hash should need rehash under DefaultParams")
	}
	if cheap.NeedsRehash(hash) {
		t.Error("hash should not need rehash under its own params")
	}
	if ok, _ := CheckPassword("pw", hash); !ok {
		t.Error("CheckPassword should honour the encoded params")
	}
}
