package account

import "errors"

var (
	// ErrSchemeAmbiguous indicates a bare Ed25519 private key with no
	// explicit address. The key can authenticate either the legacy or the
	// unified single-key scheme, and which one binds an existing address is
	// only decidable against on-chain state, never guessed locally.
	ErrSchemeAmbiguous = errors.New("ed25519 key is valid under both the legacy and unified schemes; supply an address or resolve against chain state")

	// ErrNotEnoughSigners indicates a multi-key account holding fewer
	// member private keys than the key set's signature threshold.
	ErrNotEnoughSigners = errors.New("held member keys do not meet the signature threshold")

	// ErrMemberIndexOutOfRange indicates a member private key bound to an
	// index outside the multi-key member list.
	ErrMemberIndexOutOfRange = errors.New("member index out of range")
)
