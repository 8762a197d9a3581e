package oauthmodel

import (
	"fmt"

	"github.com/jrsteele09/go-stateless-auth/internal/errors"
)

// ProviderError is a denial the identity provider reported on the callback,
// e.g. the user cancelled consent or signed in with the wrong account.
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *ProviderError) Unwrap() error {
	return errors.ErrProviderReported
}

// Message renders the text shown to the user: code, description and an operator hint
// separated by blank lines.
func (e *ProviderError) Message(hint string) string {
	return fmt.Sprintf("%s\n\n%s\n\n%s", e.Code, e.Description, hint)
}
