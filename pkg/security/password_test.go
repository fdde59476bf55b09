package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/laptopshop/pkg/config"
	"github.com/angelmondragon/laptopshop/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}

	if _, err := security.HashPassword("", cfg); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	valid, err := security.HashPassword("pw-123456", testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	fields := strings.Split(valid, "$")

	cases := map[string]string{
		"not phc":       "not-a-hash",
		"bcrypt":        "$2a$10$abcdefghijklmnopqrstuv",
		"argon2i":       strings.Replace(valid, "argon2id", "argon2i", 1),
		"old version":   strings.Replace(valid, "v=19", "v=16", 1),
		"zero memory":   strings.Replace(valid, "m=32768", "m=0", 1),
		"huge threads":  strings.Replace(valid, "p=1", "p=300", 1),
		"empty salt":    strings.Join([]string{"", fields[1], fields[2], fields[3], "", fields[5]}, "$"),
		"bad key b64":   strings.Join([]string{"", fields[1], fields[2], fields[3], fields[4], "!!"}, "$"),
		"extra section": valid + "$x",
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := security.VerifyPassword("pw-123456", encoded)
			if !errors.Is(err, security.ErrInvalidHash) || ok {
				t.Fatalf("expected ErrInvalidHash, got ok=%v err=%v", ok, err)
			}
		})
	}
}

func TestParamsFromConfigClamps(t *testing.T) {
	got := security.ParamsFromConfig(config.PasswordConfig{ArgonTime: 99, ArgonParallelism: 1000, ArgonKeyLen: 4})
	want := security.ArgonParams{Memory: 8, Time: 10, Parallelism: 255, SaltLen: 8, KeyLen: 16}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	// The zero config still produces a usable hash.
	hash, err := security.HashPassword("pw", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash with zero config: %v", err)
	}
	if ok, err := security.VerifyPassword("pw", hash); err != nil || !ok {
		t.Fatalf("verify with zero config: ok=%v err=%v", ok, err)
	}
}

func TestNeedsRehash(t *testing.T) {
	cfg := testPasswordConfig()
	hash, err := security.HashPassword("pw-123456", cfg)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if security.NeedsRehash(hash, cfg) {
		t.Fatal("hash made with the current params should not need a rehash")
	}

	stronger := cfg
	stronger.ArgonTime = 2
	if !security.NeedsRehash(hash, stronger) {
		t.Fatal("changed time cost should require a rehash")
	}
	longerSalt := cfg
	longerSalt.ArgonSaltLen = 32
	if security.NeedsRehash(hash, longerSalt) {
		t.Fatal("salt length alone should not force a rehash")
	}
	if !security.NeedsRehash("garbage", cfg) {
		t.Fatal("malformed hashes should be rehashed")
	}
}

func TestGeneratePassword(t *testing.T) {
	pw, err := security.GeneratePassword(20)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(pw) != 20 {
		t.Fatalf("expected 20 chars, got %d", len(pw))
	}
	if strings.ContainsAny(pw, "0O1lI") {
		t.Fatalf("ambiguous characters in %q", pw)
	}
	if _, err := security.GeneratePassword(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
