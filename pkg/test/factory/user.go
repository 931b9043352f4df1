package factory

import (
	fab "github.com/Goldziher/fabricator"
	"golang.org/x/crypto/bcrypt"
)

const DefaultPassword = "12345678"

// NewUser builds a T filled with fake data, then applies customData. Build
// only honours a single override map, so every map is merged first. When no
// PasswordDigest is supplied the digest of DefaultPassword is used.
func NewUser[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	merged := map[string]any{}

	for _, data := range customData {
		for key, value := range data {
			merged[key] = value
		}
	}

	if _, exists := merged["PasswordDigest"]; !exists {
		digest, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		merged["PasswordDigest"] = string(digest)
	}

	return instance.Build(merged)
}
