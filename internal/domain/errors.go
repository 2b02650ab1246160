package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCartNotFound       = errors.New("cart not found")
	ErrItemNotFound       = errors.New("item not found in cart")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

// ErrUpstream marks a failure of the external generative-language API so the
// caller can tell it apart from bad input instead of receiving a swallowed
// generic reply.
var ErrUpstream = errors.New("upstream AI failure")

// UpstreamError wraps the concrete transport or API error behind ErrUpstream.
type UpstreamError struct {
	Cause error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream AI failure: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }
