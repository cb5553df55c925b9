package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownFlow is returned when the requested flow is neither
	// "owner" nor "member".
	ErrUnknownFlow = errors.New("unknown sign-in flow")

	// ErrMissingAccount is returned when a member flow is requested
	// without a target account.
	ErrMissingAccount = errors.New("missing account reference")

	// ErrMissingCredentials is a configuration error: no effective Google
	// client pair could be resolved for the request.
	ErrMissingCredentials = errors.New("missing Google OAuth credentials")

	// ErrNotConfigured is returned when a member flow targets an account
	// without a validated blog admin origin and admin key.
	ErrNotConfigured = errors.New("account not configured for Ghost")

	// ErrAudienceMismatch is returned when the identity token carries an
	// audience claim that does not match the effective client ID.
	ErrAudienceMismatch = errors.New("token audience mismatch")

	// ErrOneTapRequiresCustom is returned when a member One Tap credential
	// arrives for an account still on the shared Google app.
	ErrOneTapRequiresCustom = errors.New("custom Google OAuth is required for One Tap")
)

// FlowError wraps any failure that occurs after the flow and target
// account are known, so the caller can scope the error response to the
// right member-facing sign-in page instead of the generic home page.
type FlowError struct {
	Flow        string
	AccountUUID string
	Err         error
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s flow failed: %v", e.Flow, e.Err)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}
