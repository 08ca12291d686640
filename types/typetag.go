package types

import (
	"fmt"
	"strings"

	"github.com/blockberries/bramble-sdk/bcs"
)

// TypeTagVariant is the ULEB128 tag selecting a type-tag union member.
type TypeTagVariant uint32

const (
	TypeTagBool    TypeTagVariant = 0
	TypeTagU8      TypeTagVariant = 1
	TypeTagU64     TypeTagVariant = 2
	TypeTagU128    TypeTagVariant = 3
	TypeTagAddress TypeTagVariant = 4
	TypeTagSigner  TypeTagVariant = 5
	TypeTagVector  TypeTagVariant = 6
	TypeTagStruct  TypeTagVariant = 7
	TypeTagU16     TypeTagVariant = 8
	TypeTagU32     TypeTagVariant = 9
	TypeTagU256    TypeTagVariant = 10
)

// TypeTagImpl is one member of the type-tag union.
type TypeTagImpl interface {
	bcs.Marshaler
	// Variant returns the member's wire tag.
	Variant() TypeTagVariant
	// String returns the Move source form, e.g. "vector<u8>".
	String() string
}

// TypeTag names an on-chain type. It appears in entry-function and script
// type-argument lists, e.g. the coin type in
// 0x1::coin::transfer<0x1::bramble_coin::BrambleCoin>.
type TypeTag struct {
	Value TypeTagImpl
}

// String returns the Move source form.
func (t TypeTag) String() string {
	return t.Value.String()
}

// MarshalBCS writes the variant tag then the member's fields.
func (t TypeTag) MarshalBCS(s *bcs.Serializer) error {
	s.WriteUleb128(uint64(t.Value.Variant()))
	return t.Value.MarshalBCS(s)
}

// UnmarshalBCS reads the variant tag and dispatches to the matching member.
func (t *TypeTag) UnmarshalBCS(d *bcs.Deserializer) error {
	tag, err := d.ReadUleb128()
	if err != nil {
		return err
	}
	switch TypeTagVariant(tag) {
	case TypeTagBool:
		t.Value = BoolTag{}
	case TypeTagU8:
		t.Value = U8Tag{}
	case TypeTagU16:
		t.Value = U16Tag{}
	case TypeTagU32:
		t.Value = U32Tag{}
	case TypeTagU64:
		t.Value = U64Tag{}
	case TypeTagU128:
		t.Value = U128Tag{}
	case TypeTagU256:
		t.Value = U256Tag{}
	case TypeTagAddress:
		t.Value = AddressTag{}
	case TypeTagSigner:
		t.Value = SignerTag{}
	case TypeTagVector:
		inner := &VectorTag{}
		if err := inner.TypeParam.UnmarshalBCS(d); err != nil {
			return err
		}
		t.Value = inner
		return nil
	case TypeTagStruct:
		inner := &StructTag{}
		if err := inner.unmarshalFields(d); err != nil {
			return err
		}
		t.Value = inner
		return nil
	default:
		return fmt.Errorf("%w: type tag variant %d", bcs.ErrInvalidVariant, tag)
	}
	return nil
}

// emptyTag carries the shared no-field marshal for primitive tags.
type emptyTag struct{}

func (emptyTag) MarshalBCS(*bcs.Serializer) error { return nil }

type BoolTag struct{ emptyTag }

func (BoolTag) Variant() TypeTagVariant { return TypeTagBool }
func (BoolTag) String() string          { return "bool" }

type U8Tag struct{ emptyTag }

func (U8Tag) Variant() TypeTagVariant { return TypeTagU8 }
func (U8Tag) String() string          { return "u8" }

type U16Tag struct{ emptyTag }

func (U16Tag) Variant() TypeTagVariant { return TypeTagU16 }
func (U16Tag) String() string          { return "u16" }

type U32Tag struct{ emptyTag }

func (U32Tag) Variant() TypeTagVariant { return TypeTagU32 }
func (U32Tag) String() string          { return "u32" }

type U64Tag struct{ emptyTag }

func (U64Tag) Variant() TypeTagVariant { return TypeTagU64 }
func (U64Tag) String() string          { return "u64" }

type U128Tag struct{ emptyTag }

func (U128Tag) Variant() TypeTagVariant { return TypeTagU128 }
func (U128Tag) String() string          { return "u128" }

type U256Tag struct{ emptyTag }

func (U256Tag) Variant() TypeTagVariant { return TypeTagU256 }
func (U256Tag) String() string          { return "u256" }

type AddressTag struct{ emptyTag }

func (AddressTag) Variant() TypeTagVariant { return TypeTagAddress }
func (AddressTag) String() string          { return "address" }

type SignerTag struct{ emptyTag }

func (SignerTag) Variant() TypeTagVariant { return TypeTagSigner }
func (SignerTag) String() string          { return "signer" }

// VectorTag is vector<T>.
type VectorTag struct {
	TypeParam TypeTag
}

func (VectorTag) Variant() TypeTagVariant { return TypeTagVector }

func (v *VectorTag) String() string {
	return "vector<" + v.TypeParam.String() + ">"
}

func (v *VectorTag) MarshalBCS(s *bcs.Serializer) error {
	return v.TypeParam.MarshalBCS(s)
}

// StructTag names a struct type: address::module::name with optional type
// parameters.
type StructTag struct {
	Address    AccountAddress
	Module     string
	Name       string
	TypeParams []TypeTag
}

func (StructTag) Variant() TypeTagVariant { return TypeTagStruct }

func (st *StructTag) String() string {
	var b strings.Builder
	b.WriteString(st.Address.String())
	b.WriteString("::")
	b.WriteString(st.Module)
	b.WriteString("::")
	b.WriteString(st.Name)
	if len(st.TypeParams) > 0 {
		b.WriteString("<")
		for i, tp := range st.TypeParams {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(tp.String())
		}
		b.WriteString(">")
	}
	return b.String()
}

func (st *StructTag) MarshalBCS(s *bcs.Serializer) error {
	if err := st.Address.MarshalBCS(s); err != nil {
		return err
	}
	s.WriteString(st.Module)
	s.WriteString(st.Name)
	return bcs.SerializeSequence(s, st.TypeParams)
}

func (st *StructTag) unmarshalFields(d *bcs.Deserializer) error {
	if err := st.Address.UnmarshalBCS(d); err != nil {
		return err
	}
	module, err := d.ReadString()
	if err != nil {
		return err
	}
	name, err := d.ReadString()
	if err != nil {
		return err
	}
	params, err := bcs.DeserializeSequence[TypeTag](d)
	if err != nil {
		return err
	}
	st.Module, st.Name, st.TypeParams = module, name, params
	return nil
}

// ============================================================================
// Type Tag Parsing
// ============================================================================

// ParseTypeTag parses a Move source form type name, including nested
// generics such as "vector<0x1::coin::CoinStore<0x1::bramble_coin::BrambleCoin>>".
func ParseTypeTag(input string) (*TypeTag, error) {
	p := &tagParser{input: input}
	tag, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("%w: trailing characters in %q", ErrInvalidTypeTag, input)
	}
	return tag, nil
}

type tagParser struct {
	input string
	pos   int
}

func (p *tagParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

// token reads up to the next delimiter (<, >, comma, or space).
func (p *tagParser) token() string {
	start := p.pos
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '<', '>', ',', ' ':
			return p.input[start:p.pos]
		}
		p.pos++
	}
	return p.input[start:]
}

func (p *tagParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return fmt.Errorf("%w: expected %q at offset %d in %q", ErrInvalidTypeTag, string(c), p.pos, p.input)
	}
	p.pos++
	return nil
}

func (p *tagParser) parse() (*TypeTag, error) {
	p.skipSpace()
	name := p.token()
	if name == "" {
		return nil, fmt.Errorf("%w: empty type name in %q", ErrInvalidTypeTag, p.input)
	}

	switch name {
	case "bool":
		return &TypeTag{Value: BoolTag{}}, nil
	case "u8":
		return &TypeTag{Value: U8Tag{}}, nil
	case "u16":
		return &TypeTag{Value: U16Tag{}}, nil
	case "u32":
		return &TypeTag{Value: U32Tag{}}, nil
	case "u64":
		return &TypeTag{Value: U64Tag{}}, nil
	case "u128":
		return &TypeTag{Value: U128Tag{}}, nil
	case "u256":
		return &TypeTag{Value: U256Tag{}}, nil
	case "address":
		return &TypeTag{Value: AddressTag{}}, nil
	case "signer":
		return &TypeTag{Value: SignerTag{}}, nil
	case "vector":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		inner, err := p.parse()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return &TypeTag{Value: &VectorTag{TypeParam: *inner}}, nil
	}

	return p.parseStruct(name)
}

func (p *tagParser) parseStruct(qualified string) (*TypeTag, error) {
	parts := strings.Split(qualified, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("%w: %q is not address::module::name", ErrInvalidTypeTag, qualified)
	}
	addr, err := ParseAddress(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTypeTag, qualified, err)
	}
	st := &StructTag{Address: addr, Module: parts[1], Name: parts[2]}

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '<' {
		p.pos++
		for {
			inner, err := p.parse()
			if err != nil {
				return nil, err
			}
			st.TypeParams = append(st.TypeParams, *inner)
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
	}
	return &TypeTag{Value: st}, nil
}
