package ports

// SecurityPort seals sensitive values before they are persisted.
type SecurityPort interface {
	// Seal encrypts plaintext and returns a printable ciphertext.
	Seal(plaintext string) (string, error)

	// Open reverses Seal. It fails if the ciphertext was tampered with.
	Open(sealed string) (string, error)
}
