package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost matches the cost the service has always used for
// stored credentials.
const DefaultHashCost = 10

// PasswordHasher produces and checks salted bcrypt digests. The cost
// is the tunable work factor; bcrypt embeds the salt and parameters
// in the digest itself.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return PasswordHasher{cost: cost}
}

// Hash returns a new digest for plaintext. Each call salts
// independently, so hashing the same input twice yields different
// digests.
func (h PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest
// is a mismatch, never an error. The comparison is constant time.
func (h PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
