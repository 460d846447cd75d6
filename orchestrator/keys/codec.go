package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// At-rest encryption scheme for private keys. The KDF cost parameters are
// stored next to the ciphertext, so they can change for new records
// without breaking old ones.
const (
	kdfArgon2id  = "argon2id"
	cipherAESGCM = "aes-256-gcm"

	saltSize   = 16
	nonceSize  = 12
	symKeySize = 32

	argon2Time    = 1
	argon2Memory  = 64 * 1024 // KiB
	argon2Threads = 4
)

// EncryptedSecret is the self-describing at-rest form of a private key:
// KDF name with cost parameters, salt, nonce, and ciphertext with the
// authentication tag appended.
type EncryptedSecret struct {
	KDF        string `json:"kdf"`
	Salt       []byte `json:"salt"`
	Time       uint32 `json:"time"`
	Memory     uint32 `json:"memory"`
	Threads    uint8  `json:"threads"`
	Cipher     string `json:"cipher"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// EncryptSecret seals a serialized private key under a passphrase-derived
// key. Every call draws a fresh salt and nonce; the derived symmetric key
// is wiped before returning.
func EncryptSecret(priv []byte, passphrase string) (*EncryptedSecret, error) {
	if len(priv) == 0 {
		return nil, fmt.Errorf("private key is empty")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropySource, err)
	}

	key := argon2.IDKey([]byte(passphrase), salt, argon2Time, argon2Memory, argon2Threads, symKeySize)
	defer zero(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return &EncryptedSecret{
		KDF:        kdfArgon2id,
		Salt:       salt,
		Time:       argon2Time,
		Memory:     argon2Memory,
		Threads:    argon2Threads,
		Cipher:     cipherAESGCM,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, priv, nil),
	}, nil
}

// DecryptSecret reverses EncryptSecret using the parameters embedded in
// sec. Wrong passphrase, tampered data and unrecognized scheme names all
// report the same ErrDecryptionFailed, so the caller cannot be used as a
// decryption oracle.
func DecryptSecret(sec *EncryptedSecret, passphrase string) ([]byte, error) {
	if sec == nil || sec.KDF != kdfArgon2id || sec.Cipher != cipherAESGCM {
		return nil, ErrDecryptionFailed
	}
	if len(sec.Salt) == 0 || len(sec.Nonce) != nonceSize || sec.Time == 0 || sec.Memory == 0 || sec.Threads == 0 {
		return nil, ErrDecryptionFailed
	}

	key := argon2.IDKey([]byte(passphrase), sec.Salt, sec.Time, sec.Memory, sec.Threads, symKeySize)
	defer zero(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	priv, err := gcm.Open(nil, sec.Nonce, sec.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return priv, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return gcm, nil
}
