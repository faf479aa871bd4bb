package auth

import (
	"strings"
	"sync"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

// dummyHash is compared against when no account matches, so an unknown
// email costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("boty-storefront-dummy"), BcryptCost)
	if err != nil {
		return nil
	}
	return hash
})

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash. bcrypt hashes are
// the default; argon2id hashes from older provisioning are accepted too.
func ComparePassword(password string, hash string) bool {
	if strings.HasPrefix(hash, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, hash)
		return err == nil && match
	}

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PrepareDummyHash computes the dummy hash up front so the first unknown
// email does not pay for generating it.
func PrepareDummyHash() {
	_ = dummyHash()
}

// BurnCompare performs a comparison whose result is discarded.
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
}
