package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestOSKeyringRoundTrip(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "")

	k := NewKeyring()
	_, err := k.GetKey()
	assert.True(t, errors.Is(err, ErrKeyNotFound))

	require.NoError(t, k.SetKey("hunter2"))
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", key)

	require.NoError(t, k.DeleteKey())
	_, err = k.GetKey()
	assert.True(t, errors.Is(err, ErrKeyNotFound))
}

func TestOSKeyringRejectsEmptyPassword(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "")

	assert.Error(t, NewKeyring().SetKey(""))
}

func TestEnvKeyringTakesPrecedence(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "from-env")

	k := NewKeyring()
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
	assert.Error(t, k.DeleteKey())

	err = k.SetKey("other")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "other")
}

func TestOSKeyringDeleteMissingKey(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "")

	assert.ErrorIs(t, NewKeyring().DeleteKey(), ErrKeyNotFound)
}
