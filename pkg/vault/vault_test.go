package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pii-anonymizer-be/pkg/apperrors"
)

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("", "salt")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindVaultUnavailable))
}

func TestSessionKeyRoundTrip(t *testing.T) {
	v, err := New("test-secret", "test-salt")
	require.NoError(t, err)

	dek, wrapped, err := v.NewSessionKey()
	require.NoError(t, err)
	require.Len(t, dek, 32)
	require.NotEmpty(t, wrapped)

	unwrapped, err := v.UnwrapSessionKey(wrapped)
	require.NoError(t, err)
	assert.Equal(t, dek, unwrapped)
}

func TestSessionKeySurvivesRestart(t *testing.T) {
	// Same secret+salt must rebuild the same master key so previously
	// wrapped session keys stay recoverable.
	v1, err := New("test-secret", "test-salt")
	require.NoError(t, err)
	v2, err := New("test-secret", "test-salt")
	require.NoError(t, err)

	dek, wrapped, err := v1.NewSessionKey()
	require.NoError(t, err)

	unwrapped, err := v2.UnwrapSessionKey(wrapped)
	require.NoError(t, err)
	assert.Equal(t, dek, unwrapped)
}

func TestUnwrapFailsWithDifferentSecret(t *testing.T) {
	v1, err := New("secret-one", "salt")
	require.NoError(t, err)
	v2, err := New("secret-two", "salt")
	require.NoError(t, err)

	_, wrapped, err := v1.NewSessionKey()
	require.NoError(t, err)

	_, err = v2.UnwrapSessionKey(wrapped)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindVaultUnavailable))
}

func TestValueEncryptionRoundTrip(t *testing.T) {
	v, err := New("test-secret", "test-salt")
	require.NoError(t, err)
	dek, _, err := v.NewSessionKey()
	require.NoError(t, err)

	ciphertext, err := v.EncryptValue(dek, "john.doe@example.com")
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "john.doe")

	plaintext, err := v.DecryptValue(context.Background(), dek, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", plaintext)
}

func TestEncryptValueIsNonDeterministic(t *testing.T) {
	v, err := New("test-secret", "test-salt")
	require.NoError(t, err)
	dek, _, err := v.NewSessionKey()
	require.NoError(t, err)

	a, err := v.EncryptValue(dek, "same value")
	require.NoError(t, err)
	b, err := v.EncryptValue(dek, "same value")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "fresh nonce per encryption")
}

func TestDecryptValueRejectsTamperedCiphertext(t *testing.T) {
	v, err := New("test-secret", "test-salt")
	require.NoError(t, err)
	dek, _, err := v.NewSessionKey()
	require.NoError(t, err)

	_, err = v.DecryptValue(context.Background(), dek, "bm90IGEgcmVhbCBjaXBoZXJ0ZXh0IGF0IGFsbCE=")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindVaultUnavailable))
}

func TestDecryptValueHonorsCancelledContext(t *testing.T) {
	v, err := New("test-secret", "test-salt")
	require.NoError(t, err)
	dek, _, err := v.NewSessionKey()
	require.NoError(t, err)

	ciphertext, err := v.EncryptValue(dek, "value")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = v.DecryptValue(ctx, dek, ciphertext)
	require.Error(t, err)
}
