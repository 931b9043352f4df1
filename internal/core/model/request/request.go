package request

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type UpdateNameRequest struct {
	NewName string `json:"newName" validate:"required,max=255"`
}

type UpdateEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email,max=255"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=72"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// Literal keeps the text of a JSON string or number, so "2024" and 2024 or
// "10.50" and 10.50 bind the same way.
type Literal string

func (l *Literal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '"' {
		var s string

		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*l = Literal(s)

		return nil
	}

	var n json.Number

	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}

	*l = Literal(n.String())

	return nil
}
