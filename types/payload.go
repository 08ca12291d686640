package types

import (
	"fmt"
	"math/big"

	"github.com/blockberries/bramble-sdk/bcs"
)

// PayloadVariant is the ULEB128 tag selecting a transaction payload union
// member. Tag 1 belonged to the retired module-bundle payload and is never
// produced or accepted.
type PayloadVariant uint32

const (
	PayloadVariantScript        PayloadVariant = 0
	PayloadVariantEntryFunction PayloadVariant = 2
	PayloadVariantMultisig      PayloadVariant = 3
)

// TransactionPayloadImpl is one member of the payload union.
type TransactionPayloadImpl interface {
	bcs.Marshaler
	PayloadVariant() PayloadVariant
}

// TransactionPayload is the tagged union of things a transaction can execute.
type TransactionPayload struct {
	Payload TransactionPayloadImpl
}

// MarshalBCS writes the variant tag then the member's fields.
func (t TransactionPayload) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(uint64(t.Payload.PayloadVariant()))
	return t.Payload.MarshalBCS(s)
}

// UnmarshalBCS reads the variant tag and dispatches to the matching member.
func (t *TransactionPayload) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch PayloadVariant(tag) {
	case PayloadVariantScript:
		inner := &Script{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		t.Payload = inner
	case PayloadVariantEntryFunction:
		inner := &EntryFunction{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		t.Payload = inner
	case PayloadVariantMultisig:
		inner := &MultisigPayload{}
		if err := inner.UnmarshalBCS(d); err != nil {
			return err
		}
		t.Payload = inner
	default:
		return fmt.Errorf("%w: payload variant %d", bcs.ErrInvalidVariant, tag)
	}
	return nil
}

// ModuleId names an on-chain module: publishing address plus module name.
type ModuleId struct {
	Address AccountAddress
	Name    string
}

// String returns the address::name form.
func (m ModuleId) String() string {
	return m.Address.String() + "::" + m.Name
}

func (m ModuleId) MarshalBCS(s *bcs.Serializer) error {
	if err := m.Address.MarshalBCS(s); err != nil {
		return err
	}
	s.WriteString(m.Name)
	return nil
}

func (m *ModuleId) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := m.Address.UnmarshalBCS(d); err != nil {
		return err
	}
	name, err := d.ReadString()
	if err != nil {
		return err
	}
	m.Name = name
	return nil
}

// EntryFunction calls a named public entry function. Arguments are carried
// pre-encoded: each element of Args is the BCS encoding of one argument.
type EntryFunction struct {
	Module   ModuleId
	Function string
	ArgTypes []TypeTag
	Args     [][]byte
}

func (*EntryFunction) PayloadVariant() PayloadVariant { return PayloadVariantEntryFunction }

func (e *EntryFunction) MarshalBCS(s *bcs.Serializer) error {
	if err := e.Module.MarshalBCS(s); err != nil {
		return err
	}
	s.WriteString(e.Function)
	if err := bcs.SerializeSequence(s, e.ArgTypes); err != nil {
		return err
	}
	s.WriteUleb128(uint64(len(e.Args)))
	for _, arg := range e.Args {
		s.WriteBytes(arg)
	}
	return nil
}

func (e *EntryFunction) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := e.Module.UnmarshalBCS(d); err != nil {
		return err
	}
	function, err := d.ReadString()
	if err != nil {
		return err
	}
	argTypes, err := bcs.DeserializeSequence[TypeTag](d)
	if err != nil {
		return err
	}
	n, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	if n > uint64(d.Remaining()) {
		return fmt.Errorf("%w: %d arguments exceed %d remaining bytes",
			bcs.ErrUnexpectedEOF, n, d.Remaining())
	}
	args := make([][]byte, n)
	for i := range args {
		if args[i], err = d.ReadBytes(); err != nil {
			return err
		}
	}
	e.Function, e.ArgTypes, e.Args = function, argTypes, args
	return nil
}

// Script executes compiled script bytecode with typed arguments.
type Script struct {
	Code     []byte
	ArgTypes []TypeTag
	Args     []ScriptArgument
}

func (*Script) PayloadVariant() PayloadVariant { return PayloadVariantScript }

func (sc *Script) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBytes(sc.Code)
	if err := bcs.SerializeSequence(s, sc.ArgTypes); err != nil {
		return err
	}
	return bcs.SerializeSequence(s, sc.Args)
}

func (sc *Script) UnmarshalBCS(d *bcs.Deserializer) error {
	code, err := d.ReadBytes()
	if err != nil {
		return err
	}
	argTypes, err := bcs.DeserializeSequence[TypeTag](d)
	if err != nil {
		return err
	}
	args, err := bcs.DeserializeSequence[ScriptArgument](d)
	if err != nil {
		return err
	}
	sc.Code, sc.ArgTypes, sc.Args = code, argTypes, args
	return nil
}

// MultisigPayload routes execution through an on-chain multisig account.
// The inner entry function is optional: absent when the multisig transaction
// was created on-chain and only needs approval.
type MultisigPayload struct {
	MultisigAddress AccountAddress
	Inner           *EntryFunction
}

func (*MultisigPayload) PayloadVariant() PayloadVariant { return PayloadVariantMultisig }

// multisigInnerVariantEntryFunction is the only inner payload form.
const multisigInnerVariantEntryFunction = 0

func (m *MultisigPayload) MarshalBCS(s *bcs.Serializer) error {
	if err := m.MultisigAddress.MarshalBCS(s); err != nil {
		return err
	}
	if m.Inner == nil {
		s.WriteBool(false)
		return nil
	}
	s.WriteBool(true)
	s.WriteUleb128(multisigInnerVariantEntryFunction)
	return m.Inner.MarshalBCS(s)
}

func (m *MultisigPayload) UnmarshalBCS(d *bcs.Deserializer) error {
	if err := m.MultisigAddress.UnmarshalBCS(d); err != nil {
		return err
	}
	present, err := d.ReadBool()
	if err != nil {
		return err
	}
	if !present {
		m.Inner = nil
		return nil
	}
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	if tag != multisigInnerVariantEntryFunction {
		return fmt.Errorf("%w: multisig inner payload variant %d", bcs.ErrInvalidVariant, tag)
	}
	inner := &EntryFunction{}
	if err := inner.UnmarshalBCS(d); err != nil {
		return err
	}
	m.Inner = inner
	return nil
}

// ============================================================================
// Script Arguments
// ============================================================================

// ScriptArgumentVariant is the ULEB128 tag selecting a script argument form.
type ScriptArgumentVariant uint32

const (
	ScriptArgVariantU8       ScriptArgumentVariant = 0
	ScriptArgVariantU64      ScriptArgumentVariant = 1
	ScriptArgVariantU128     ScriptArgumentVariant = 2
	ScriptArgVariantAddress  ScriptArgumentVariant = 3
	ScriptArgVariantU8Vector ScriptArgumentVariant = 4
	ScriptArgVariantBool     ScriptArgumentVariant = 5
	ScriptArgVariantU16      ScriptArgumentVariant = 6
	ScriptArgVariantU32      ScriptArgumentVariant = 7
	ScriptArgVariantU256     ScriptArgumentVariant = 8
)

// ScriptArgumentImpl is one member of the script argument union.
type ScriptArgumentImpl interface {
	bcs.Marshaler
	ScriptArgVariant() ScriptArgumentVariant
}

// ScriptArgument is a typed script parameter value.
type ScriptArgument struct {
	Value ScriptArgumentImpl
}

func (a ScriptArgument) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(uint64(a.Value.ScriptArgVariant()))
	return a.Value.MarshalBCS(s)
}

func (a *ScriptArgument) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch ScriptArgumentVariant(tag) {
	case ScriptArgVariantU8:
		v, err := d.ReadU8()
		if err != nil {
			return err
		}
		a.Value = ScriptArgU8(v)
	case ScriptArgVariantU16:
		v, err := d.ReadU16()
		if err != nil {
			return err
		}
		a.Value = ScriptArgU16(v)
	case ScriptArgVariantU32:
		v, err := d.ReadU32()
		if err != nil {
			return err
		}
		a.Value = ScriptArgU32(v)
	case ScriptArgVariantU64:
		v, err := d.ReadU64()
		if err != nil {
			return err
		}
		a.Value = ScriptArgU64(v)
	case ScriptArgVariantU128:
		v, err := d.ReadU128()
		if err != nil {
			return err
		}
		a.Value = (*ScriptArgU128)(v)
	case ScriptArgVariantU256:
		v, err := d.ReadU256()
		if err != nil {
			return err
		}
		a.Value = (*ScriptArgU256)(v)
	case ScriptArgVariantAddress:
		var addr AccountAddress
		if err := addr.UnmarshalBCS(d); err != nil {
			return err
		}
		a.Value = ScriptArgAddress(addr)
	case ScriptArgVariantU8Vector:
		v, err := d.ReadBytes()
		if err != nil {
			return err
		}
		a.Value = ScriptArgU8Vector(v)
	case ScriptArgVariantBool:
		v, err := d.ReadBool()
		if err != nil {
			return err
		}
		a.Value = ScriptArgBool(v)
	default:
		return fmt.Errorf("%w: script argument variant %d", ErrInvalidScriptArgument, tag)
	}
	return nil
}

type ScriptArgU8 uint8

func (ScriptArgU8) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU8 }
func (v ScriptArgU8) MarshalBCS(s *bcs.Serializer) error {
	s.WriteU8(uint8(v))
	return nil
}

type ScriptArgU16 uint16

func (ScriptArgU16) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU16 }
func (v ScriptArgU16) MarshalBCS(s *bcs.Serializer) error {
	s.WriteU16(uint16(v))
	return nil
}

type ScriptArgU32 uint32

func (ScriptArgU32) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU32 }
func (v ScriptArgU32) MarshalBCS(s *bcs.Serializer) error {
	s.WriteU32(uint32(v))
	return nil
}

type ScriptArgU64 uint64

func (ScriptArgU64) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU64 }
func (v ScriptArgU64) MarshalBCS(s *bcs.Serializer) error {
	s.WriteU64(uint64(v))
	return nil
}

type ScriptArgU128 big.Int

func (*ScriptArgU128) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU128 }
func (v *ScriptArgU128) MarshalBCS(s *bcs.Serializer) error {
	return s.WriteU128((*big.Int)(v))
}

type ScriptArgU256 big.Int

func (*ScriptArgU256) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU256 }
func (v *ScriptArgU256) MarshalBCS(s *bcs.Serializer) error {
	return s.WriteU256((*big.Int)(v))
}

type ScriptArgAddress AccountAddress

func (ScriptArgAddress) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantAddress }
func (v ScriptArgAddress) MarshalBCS(s *bcs.Serializer) error {
	return AccountAddress(v).MarshalBCS(s)
}

type ScriptArgU8Vector []byte

func (ScriptArgU8Vector) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantU8Vector }
func (v ScriptArgU8Vector) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBytes(v)
	return nil
}

type ScriptArgBool bool

func (ScriptArgBool) ScriptArgVariant() ScriptArgumentVariant { return ScriptArgVariantBool }
func (v ScriptArgBool) MarshalBCS(s *bcs.Serializer) error {
	s.WriteBool(bool(v))
	return nil
}
