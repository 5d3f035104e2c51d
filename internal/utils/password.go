package utils

import "golang.org/x/crypto/bcrypt"

// Account passwords are stored as bcrypt hashes. The cost comes from
// BCRYPT_COST in the environment so deployments can tune hashing time
// without a rebuild; tests use a low cost to stay fast.

// HashPassword hashes a plaintext password with the given bcrypt cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash. The
// comparison is constant-time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
