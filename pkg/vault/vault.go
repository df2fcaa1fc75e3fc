package vault

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/argon2"

	"pii-anonymizer-be/pkg/apperrors"
)

const (
	keySize   = 32
	nonceSize = 12
)

// Vault encrypts original PII values at rest. Each session gets its own
// random data key (DEK); the DEK itself is stored wrapped under the master
// key, so a leaked session row is useless without the vault secret.
//
// The vault knows nothing about sessions beyond the opaque wrapped key the
// caller hands back to it.
type Vault struct {
	masterKey []byte
}

// New derives the master key from the configured secret with argon2id and
// a deployment-scoped salt. The same secret+salt always yields the same key,
// so previously wrapped session keys stay recoverable across restarts.
func New(secret, salt string) (*Vault, error) {
	if secret == "" {
		return nil, apperrors.New(apperrors.KindVaultUnavailable, "vault secret is not configured")
	}
	key := argon2.IDKey([]byte(secret), []byte(salt), 1, 64*1024, 4, keySize)
	return &Vault{masterKey: key}, nil
}

// NewSessionKey generates a fresh DEK and returns it alongside its wrapped
// form for persistence.
func (v *Vault) NewSessionKey() (dek []byte, wrapped string, err error) {
	dek = make([]byte, keySize)
	if _, err := rand.Read(dek); err != nil {
		return nil, "", apperrors.Wrap(apperrors.KindVaultUnavailable, "generate session key", err)
	}
	wrapped, err = seal(v.masterKey, dek)
	if err != nil {
		return nil, "", err
	}
	return dek, wrapped, nil
}

// UnwrapSessionKey recovers a session DEK from its stored wrapped form.
func (v *Vault) UnwrapSessionKey(wrapped string) ([]byte, error) {
	dek, err := open(v.masterKey, wrapped)
	if err != nil {
		return nil, err
	}
	return dek, nil
}

// EncryptValue encrypts one PII value under the session DEK.
func (v *Vault) EncryptValue(dek []byte, plaintext string) (string, error) {
	return seal(dek, []byte(plaintext))
}

// DecryptValue decrypts one stored PII value. The context gates the call so
// a reveal request can be cancelled while decrypting a large mapping set.
func (v *Vault) DecryptValue(ctx context.Context, dek []byte, ciphertext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.Wrap(apperrors.KindVaultUnavailable, "decrypt cancelled", err)
	}
	plaintext, err := open(dek, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// seal encrypts with AES-GCM and encodes base64(nonce||ciphertext).
func seal(key, plaintext []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindVaultUnavailable, "init cipher", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindVaultUnavailable, "init gcm", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", apperrors.Wrap(apperrors.KindVaultUnavailable, "generate nonce", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func open(key []byte, encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindVaultUnavailable, "decode ciphertext", err)
	}
	if len(raw) < nonceSize {
		return nil, apperrors.New(apperrors.KindVaultUnavailable, "ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindVaultUnavailable, "init cipher", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindVaultUnavailable, "init gcm", err)
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindVaultUnavailable, "decrypt", err)
	}
	return plaintext, nil
}
