package crypto

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	// Bip44Purpose is the BIP44 purpose field.
	Bip44Purpose = 44

	// BrambleCoinType is the registered BIP44 coin type for Bramble accounts.
	BrambleCoinType = 736

	// hardenedOffset marks a hardened path component.
	hardenedOffset uint32 = 0x80000000

	// ed25519Curve is the SLIP-10 master key domain for Ed25519.
	ed25519Curve = "ed25519 seed"

	// seedIterations and seedLength follow BIP39:
	// seed = PBKDF2-SHA512(mnemonic, "mnemonic"+passphrase, 2048, 64).
	seedIterations = 2048
	seedLength     = 64
)

// PathComponent is one level of a BIP44 derivation path.
type PathComponent struct {
	Index    uint32
	Hardened bool
}

// DerivationPath is a parsed BIP44 path such as m/44'/736'/0'/0'/0'.
//
// INVARIANT: Exactly five components, with purpose 44' and the Bramble coin
// type, both hardened.
type DerivationPath struct {
	Components []PathComponent
}

// ParseDerivationPath parses and validates a BIP44 path string.
// Both `'` and `h` mark hardened components. Rejected before any key
// material is produced.
func ParseDerivationPath(path string) (*DerivationPath, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 6 || parts[0] != "m" {
		return nil, fmt.Errorf("%w: want m/purpose'/coin'/account'/change/index, got %q",
			ErrInvalidDerivationPath, path)
	}

	components := make([]PathComponent, 0, 5)
	for _, part := range parts[1:] {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") {
			hardened = true
			part = part[:len(part)-1]
		}
		index, err := strconv.ParseUint(part, 10, 32)
		if err != nil || uint32(index) >= hardenedOffset {
			return nil, fmt.Errorf("%w: bad component %q in %q", ErrInvalidDerivationPath, part, path)
		}
		components = append(components, PathComponent{Index: uint32(index), Hardened: hardened})
	}

	if components[0].Index != Bip44Purpose || !components[0].Hardened {
		return nil, fmt.Errorf("%w: purpose must be %d' in %q", ErrInvalidDerivationPath, Bip44Purpose, path)
	}
	if components[1].Index != BrambleCoinType || !components[1].Hardened {
		return nil, fmt.Errorf("%w: coin type must be %d' in %q", ErrInvalidDerivationPath, BrambleCoinType, path)
	}

	return &DerivationPath{Components: components}, nil
}

// allHardened reports whether every component is hardened, which SLIP-10
// Ed25519 derivation requires.
func (p *DerivationPath) allHardened() bool {
	for _, c := range p.Components {
		if !c.Hardened {
			return false
		}
	}
	return true
}

// MnemonicToSeed converts a BIP39 mnemonic plus optional passphrase to a
// 64-byte seed.
//
// The mnemonic is NFKD-normalized, then wordlist- and checksum-validated
// before any key material is derived; a malformed mnemonic never reaches
// the KDF.
func MnemonicToSeed(mnemonic, passphrase string) ([]byte, error) {
	normalized := norm.NFKD.String(strings.TrimSpace(mnemonic))
	if _, err := bip39.EntropyFromMnemonic(normalized); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	salt := norm.NFKD.String("mnemonic" + passphrase)
	return pbkdf2.Key([]byte(normalized), []byte(salt), seedIterations, seedLength, sha512.New), nil
}

// Ed25519PrivateKeyFromDerivationPath derives an Ed25519 key from a mnemonic
// using SLIP-10. Every path component must be hardened.
func Ed25519PrivateKeyFromDerivationPath(path, mnemonic string) (*Ed25519PrivateKey, error) {
	parsed, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}
	if !parsed.allHardened() {
		return nil, fmt.Errorf("%w: ed25519 derivation requires all-hardened components in %q",
			ErrInvalidDerivationPath, path)
	}

	seed, err := MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer Zeroize(seed)

	key, chainCode := slip10MasterKey(seed)
	for _, c := range parsed.Components {
		// slip10DeriveChild zeroizes the parent key and chain code.
		key, chainCode = slip10DeriveChild(key, chainCode, c.Index|hardenedOffset)
	}

	priv, err := NewEd25519PrivateKey(key)
	Zeroize(key)
	Zeroize(chainCode)
	return priv, err
}

// Secp256k1PrivateKeyFromDerivationPath derives a secp256k1 key from a
// mnemonic using BIP32.
func Secp256k1PrivateKeyFromDerivationPath(path, mnemonic string) (*Secp256k1PrivateKey, error) {
	parsed, err := ParseDerivationPath(path)
	if err != nil {
		return nil, err
	}

	seed, err := MnemonicToSeed(mnemonic, "")
	if err != nil {
		return nil, err
	}
	defer Zeroize(seed)

	node, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: master key derivation failed: %v", ErrInvalidDerivationPath, err)
	}
	for _, c := range parsed.Components {
		index := c.Index
		if c.Hardened {
			index |= bip32.FirstHardenedChild
		}
		node, err = node.NewChildKey(index)
		if err != nil {
			return nil, fmt.Errorf("%w: child derivation failed at %d: %v",
				ErrInvalidDerivationPath, c.Index, err)
		}
	}

	return NewSecp256k1PrivateKey(node.Key)
}

// slip10MasterKey computes the SLIP-10 Ed25519 master key and chain code.
func slip10MasterKey(seed []byte) (key, chainCode []byte) {
	mac := hmac.New(sha512.New, []byte(ed25519Curve))
	mac.Write(seed)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}

// slip10DeriveChild computes one hardened SLIP-10 child step:
// HMAC-SHA512(chainCode, 0x00 || key || ser32(index)).
func slip10DeriveChild(key, chainCode []byte, index uint32) (childKey, childChain []byte) {
	var indexBytes [4]byte
	binary.BigEndian.PutUint32(indexBytes[:], index)

	mac := hmac.New(sha512.New, chainCode)
	mac.Write([]byte{0x00})
	mac.Write(key)
	mac.Write(indexBytes[:])
	sum := mac.Sum(nil)

	Zeroize(key)
	Zeroize(chainCode)
	return sum[:32], sum[32:]
}
