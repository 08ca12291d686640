// Package types defines the on-chain data model for the Bramble SDK:
// account addresses, type tags, transaction payloads, raw transactions,
// signing messages, and authenticators.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blockberries/bramble-sdk/bcs"
	"github.com/blockberries/bramble-sdk/crypto"
)

// AddressLength is the account address length in bytes.
const AddressLength = 32

// AccountAddress is a fixed 32-byte on-chain account identifier.
// Equality is byte equality.
type AccountAddress [AddressLength]byte

// Reserved framework addresses.
var (
	// AddressZero is 0x0. It doubles as the fee-payer placeholder when a
	// fee-payer signing message is generated before the fee payer is known.
	AddressZero = AccountAddress{}

	// AddressOne is 0x1, the framework address.
	AddressOne = mustAddress("0x1")
)

func mustAddress(s string) AccountAddress {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(fmt.Sprintf("types: bad address literal %q: %v", s, err))
	}
	return addr
}

// ParseAddress parses an address from its hex text form.
//
// Both the canonical long form (0x + 64 hex digits) and the short form
// (leading zero nibbles omitted) are accepted on input. The 0x prefix is
// optional. Canonical output is always the long form.
func ParseAddress(s string) (AccountAddress, error) {
	var addr AccountAddress

	trimmed := strings.TrimPrefix(s, "0x")
	if trimmed == "" {
		return addr, fmt.Errorf("%w: empty string", ErrInvalidAddress)
	}
	if len(trimmed) > 2*AddressLength {
		return addr, fmt.Errorf("%w: %d hex digits exceeds %d", ErrInvalidAddress, len(trimmed), 2*AddressLength)
	}

	// Left-pad short forms to the full width before decoding.
	if len(trimmed)%2 == 1 {
		trimmed = "0" + trimmed
	}
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("%w: %q is not hex", ErrInvalidAddress, s)
	}
	copy(addr[AddressLength-len(raw):], raw)
	return addr, nil
}

// AddressFromAuthKey derives the account address bound to a fresh
// authentication key. For a never-rotated account the address and the
// authentication key are the same 32 bytes.
func AddressFromAuthKey(ak crypto.AuthenticationKey) AccountAddress {
	var addr AccountAddress
	copy(addr[:], ak.Bytes())
	return addr
}

// Bytes returns the 32 raw bytes.
func (a AccountAddress) Bytes() []byte {
	return a[:]
}

// String returns the canonical long text form: 0x followed by all 64 hex
// digits. Short forms are never produced on output.
func (a AccountAddress) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// MarshalBCS writes the address as 32 raw bytes, no length prefix.
func (a AccountAddress) MarshalBCS(s *bcs.Serializer) error {
	s.WriteFixedBytes(a[:])
	return nil
}

// UnmarshalBCS reads 32 raw bytes.
func (a *AccountAddress) UnmarshalBCS(d *bcs.Deserializer) error {
	data, err := d.ReadFixedBytes(AddressLength)
	if err != nil {
		return err
	}
	copy(a[:], data)
	return nil
}
