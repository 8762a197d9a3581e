package provider

import (
	"fmt"

	"github.com/jrsteele09/go-stateless-auth/internal/errors"
)

// ErrorKind classifies why an exchange produced no identity.
type ErrorKind int

const (
	// InvalidArgument means the authorization code was empty.
	InvalidArgument ErrorKind = iota + 1
	// ExchangeFailed covers transport, protocol and provider-side failures.
	ExchangeFailed
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case ExchangeFailed:
		return "exchange_failed"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	if k == InvalidArgument {
		return errors.ErrInvalidArgument
	}
	return errors.ErrExchangeFailed
}

// ExchangeError is the typed failure returned by Client.Exchange.
// It matches errors.ErrInvalidArgument or errors.ErrExchangeFailed with errors.Is, and the cause.
type ExchangeError struct {
	Kind ErrorKind
	// ProviderCode is the OAuth2 error code from the token endpoint, when it sent one.
	ProviderCode string
	Err          error
}

func (e *ExchangeError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.ProviderCode != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.ProviderCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ExchangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func invalidArgument(msg string) *ExchangeError {
	return &ExchangeError{Kind: InvalidArgument, Err: errors.New(msg)}
}

func exchangeFailed(err error) *ExchangeError {
	return &ExchangeError{Kind: ExchangeFailed, Err: err}
}
