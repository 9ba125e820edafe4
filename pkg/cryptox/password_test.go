package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "cryptox-test")
	if err != nil {
		panic(err)
	}
	SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"contains separator", "a:b:c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)

			salt, digest, ok := strings.Cut(hash, ":")
			require.True(t, ok, "hash should be salt:hash")
			require.NotEmpty(t, salt)
			require.NotEmpty(t, digest)
			require.NotContains(t, digest, ":")

			require.True(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)
	hash2, err := HashPassword(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.True(t, VerifyPassword(password, hash1))
	require.True(t, VerifyPassword(password, hash2))
}

func TestHashPasswordWithSalt_Deterministic(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	salt, _, _ := strings.Cut(hash, ":")
	again, err := HashPasswordWithSalt("hunter2", salt)
	require.NoError(t, err)
	require.Equal(t, hash, again)

	other, err := HashPasswordWithSalt("hunter3", salt)
	require.NoError(t, err)
	require.NotEqual(t, hash, other)
}

func TestHashPasswordWithSalt_BadSalt(t *testing.T) {
	_, err := HashPasswordWithSalt("pw", "!!!not-base64!!!")
	require.ErrorIs(t, err, ErrMalformedHash)

	_, err = HashPasswordWithSalt("pw", "")
	require.ErrorIs(t, err, ErrMalformedHash)
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		require.False(t, VerifyPassword(wrong, hash), "input %q", wrong)
	}
}

func TestVerifyPassword_MalformedStored(t *testing.T) {
	for _, stored := range []string{
		"",
		"no-separator",
		":onlyhash",
		"!!!:aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		require.False(t, VerifyPassword("password", stored), "stored %q", stored)
	}
}

func TestSetPepperPathChangesHashes(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	original := pepperFile
	t.Cleanup(func() { SetPepperPath(original) })

	SetPepperPath(filepath.Join(t.TempDir(), "other-pepper"))
	require.False(t, VerifyPassword("pw", hash), "a different pepper must not verify old hashes")
}
