// Package access decides whether a resolved principal may invoke an
// operation. Routes declare a Capability; the HTTP layer asks Authorize once
// per request.
package access

import (
	"context"
	"fmt"

	"pricelist/internal/core/domain"
)

type Capability int

const (
	Public Capability = iota
	AdminOnly
	OwnerOnly
)

func (c Capability) String() string {
	switch c {
	case Public:
		return "public"
	case AdminOnly:
		return "admin_only"
	case OwnerOnly:
		return "owner_only"
	}

	return fmt.Sprintf("capability(%d)", int(c))
}

type Reason string

const (
	ReasonNoCredential      Reason = "no_credential"
	ReasonInvalidCredential Reason = "invalid_credential"
	ReasonExpiredCredential Reason = "expired_credential"
	ReasonWrongRole         Reason = "wrong_role"
	ReasonNotOwner          Reason = "not_owner"
)

// Denied is returned for every rejected request. Message is safe to show to
// clients.
type Denied struct {
	Reason  Reason
	Message string
}

func (d *Denied) Error() string {
	return fmt.Sprintf("access denied (%s): %s", d.Reason, d.Message)
}

// Unauthenticated reports whether the denial is about the credential itself
// rather than what the principal may do.
func (d *Denied) Unauthenticated() bool {
	switch d.Reason {
	case ReasonNoCredential, ReasonInvalidCredential, ReasonExpiredCredential:
		return true
	}

	return false
}

func Deny(reason Reason) *Denied {
	return &Denied{Reason: reason, Message: messages[reason]}
}

var messages = map[Reason]string{
	ReasonNoCredential:      "Empty token.",
	ReasonInvalidCredential: "Wrong token.",
	ReasonExpiredCredential: "Token expired.",
	ReasonWrongRole:         "Access forbidden.",
	ReasonNotOwner:          "You can only manage your own account.",
}

// Authorize checks principal against capability. A nil principal means no
// credential was presented.
func Authorize(principal *domain.Principal, capability Capability) error {
	if capability == Public {
		return nil
	}

	if principal == nil {
		return Deny(ReasonNoCredential)
	}

	switch capability {
	case AdminOnly:
		if principal.Role != domain.RoleAdmin {
			return Deny(ReasonWrongRole)
		}
	case OwnerOnly:
		if principal.Role != domain.RoleStandard {
			return Deny(ReasonWrongRole)
		}
	default:
		return Deny(ReasonWrongRole)
	}

	return nil
}

// AuthorizeOwner rejects acting on any account other than the principal's own.
func AuthorizeOwner(principal domain.Principal, ownerID int64) error {
	if principal.ID != ownerID {
		return Deny(ReasonNotOwner)
	}

	return nil
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}
