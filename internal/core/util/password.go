package util

import "golang.org/x/crypto/bcrypt"

func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(digest), nil
}

func ComparePassword(password, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
}
