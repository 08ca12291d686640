package types

import "errors"

var (
	// ErrInvalidAddress indicates an address string that is not valid hex,
	// is empty, or exceeds 64 hex digits.
	ErrInvalidAddress = errors.New("invalid account address")

	// ErrInvalidTypeTag indicates a type tag string that could not be parsed.
	ErrInvalidTypeTag = errors.New("invalid type tag")

	// ErrInvalidScriptArgument indicates a script argument with an
	// unrecognized variant tag or malformed payload.
	ErrInvalidScriptArgument = errors.New("invalid script argument")

	// ErrSignerCountMismatch indicates secondary-signer address and
	// authenticator lists of different lengths.
	ErrSignerCountMismatch = errors.New("signer address and authenticator counts differ")
)
