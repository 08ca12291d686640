package types

import (
	"github.com/blockberries/bramble-sdk/bcs"
)

// RawTransaction is the unsigned transaction body.
//
// INVARIANT: Serialization is deterministic. Two raw transactions with equal
// field values produce byte-identical encodings, which is what makes the
// signing message well defined.
type RawTransaction struct {
	Sender                  AccountAddress
	SequenceNumber          uint64
	Payload                 TransactionPayload
	MaxGasAmount            uint64
	GasUnitPrice            uint64
	ExpirationTimestampSecs uint64
	ChainId                 uint8
}

// MarshalBCS writes the fields in declaration order.
func (t *RawTransaction) MarshalBCS(s *bcs.Serializer) error {
	if err := t.Sender.MarshalBCS(s); err != nil {
		return err
	}
	s.WriteU64(t.SequenceNumber)
	if err := t.Payload.MarshalBCS(s); err != nil {
		return err
	}
	s.WriteU64(t.MaxGasAmount)
	s.WriteU64(t.GasUnitPrice)
	s.WriteU64(t.ExpirationTimestampSecs)
	s.WriteU8(t.ChainId)
	return nil
}

// UnmarshalBCS reads the fields in declaration order.
func (t *RawTransaction) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := t.Sender.UnmarshalBCS(d); err != nil {
		return err
	}
	seq, err := d.ReadU64()
	if err != nil {
		return err
	}
	if err := t.Payload.UnmarshalBCS(d); err != nil {
		return err
	}
	maxGas, err := d.ReadU64()
	if err != nil {
		return err
	}
	gasPrice, err := d.ReadU64()
	if err != nil {
		return err
	}
	expiration, err := d.ReadU64()
	if err != nil {
		return err
	}
	chainId, err := d.ReadU8()
	if err != nil {
		return err
	}
	t.SequenceNumber = seq
	t.MaxGasAmount = maxGas
	t.GasUnitPrice = gasPrice
	t.ExpirationTimestampSecs = expiration
	t.ChainId = chainId
	return nil
}
