package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func run(t *testing.T, store repository.BlobStore, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	history := service.NewHistoryService(store, service.DefaultHistoryLimit)
	history.Load(context.Background())

	cmd := NewRootCommand(Deps{
		In:            strings.NewReader(stdin),
		Out:           &out,
		History:       history,
		DefaultLength: crypto.DefaultLength,
		Build:         BuildInfo{Version: "1.2.3", Commit: "abc", BuildTime: "now"},
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateDefaults(t *testing.T) {
	out, err := run(t, repository.NewMemoryStore(), "", "generate")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), 8)
}

func TestGenerateNumbersOnly(t *testing.T) {
	out, err := run(t, repository.NewMemoryStore(), "", "generate", "-l", "10", "--letters=false", "--symbols=false")
	require.NoError(t, err)

	pw := strings.TrimSpace(out)
	require.Len(t, pw, 10)
	for _, c := range pw {
		assert.Contains(t, crypto.NumberChars, string(c))
	}
}

func TestGenerateErrors(t *testing.T) {
	store := repository.NewMemoryStore()

	_, err := run(t, store, "", "generate", "--numbers=false", "--letters=false", "--symbols=false")
	require.ErrorIs(t, err, crypto.ErrNoCharacterClassSelected)
	assert.Equal(t, "Please select at least one character type.", Message(err))

	_, err = run(t, store, "", "generate", "-l", "abc", "--numbers=false", "--letters=false", "--symbols=false")
	require.ErrorIs(t, err, crypto.ErrNoCharacterClassSelected, "an empty charset is reported before the length")

	_, err = run(t, store, "", "generate", "-l", "abc")
	require.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, err = run(t, store, "", "generate", "-l", "-3")
	require.ErrorIs(t, err, crypto.ErrInvalidLength)

	_, err = run(t, store, "", "generate", "-c", "0")
	require.ErrorIs(t, err, errCountTooSmall)

	out, err := run(t, store, "", "history")
	require.NoError(t, err)
	assert.Equal(t, "No passwords generated yet.\n", out)
}

func TestHistoryAcrossInvocations(t *testing.T) {
	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)

	out, err := run(t, store, "", "generate", "-c", "7")
	require.NoError(t, err)
	generated := strings.Fields(out)
	require.Len(t, generated, 7)

	out, err = run(t, store, "", "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "1. "+generated[6], lines[0])
	assert.Equal(t, "5. "+generated[2], lines[4])
}

func TestHashPassphrase(t *testing.T) {
	out, err := run(t, repository.NewMemoryStore(), "open-sesame\n", "hash-passphrase")
	require.NoError(t, err)

	ok, err := crypto.VerifyPassphrase("open-sesame", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = run(t, repository.NewMemoryStore(), "", "hash-passphrase")
	assert.ErrorIs(t, err, crypto.ErrEmptyPassphrase)
}

func TestVersion(t *testing.T) {
	out, err := run(t, repository.NewMemoryStore(), "", "version")
	require.NoError(t, err)
	assert.Equal(t, "version=1.2.3 commit=abc build_time=now\n", out)

	out, err = run(t, repository.NewMemoryStore(), "", "version", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.2.3","commit":"abc","build_time":"now"}`, out)
}
