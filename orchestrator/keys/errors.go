package keys

import "errors"

// Error taxonomy of the keystore engine. Operations wrap these with
// name/chain context through fmt.Errorf("...: %w", ...) so callers can
// branch with errors.Is. Error text never contains secret material.
var (
	// ErrEntropySource means the system random source failed. Local
	// environment problem, not recoverable by retrying the operation.
	ErrEntropySource = errors.New("system entropy source unavailable")

	// ErrInvalidMnemonic rejects a mnemonic whose word count or checksum
	// is wrong. Nothing is written before this check passes.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")

	// ErrNameExists reports a name collision within a chain namespace.
	ErrNameExists = errors.New("key name already exists")

	// ErrKeyNotFound reports an absent record.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDecryptionFailed covers wrong passphrase and tampered ciphertext
	// alike; the two cases are deliberately not distinguished.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrCorruptRecord marks a record file that exists but does not
	// parse. It is isolated to the one record.
	ErrCorruptRecord = errors.New("corrupt key record")

	// ErrInvalidKeyName rejects names that are empty, non-ASCII, or
	// contain path characters.
	ErrInvalidKeyName = errors.New("invalid key name")

	// ErrUnknownChain rejects a chain outside the supported set.
	ErrUnknownChain = errors.New("unknown chain")

	// ErrStorage wraps underlying filesystem failures. Retry policy
	// belongs to the operator, so these are surfaced as-is.
	ErrStorage = errors.New("keystore storage failure")
)
