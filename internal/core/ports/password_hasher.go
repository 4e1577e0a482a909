package ports

// PasswordHasher produces and verifies one-way salted password digests.
// Verify must fail closed: any internal error counts as "does not match".
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
