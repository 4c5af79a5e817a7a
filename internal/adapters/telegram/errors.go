package telegram

import "errors"

// Sentinel kinds for delivery errors.
var (
	ErrInit         = errors.New("bot init failed")
	ErrBadRecipient = errors.New("invalid recipient")
	ErrDeliver      = errors.New("delivery failed")
)
