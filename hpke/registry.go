package hpke

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/nyxhpke/hpke-core/kem"

	"golang.org/x/crypto/chacha20poly1305"

	hpkecore "github.com/nyxhpke/hpke-core"
)

// IANA HPKE KEM identifiers (RFC 9180 section 7.1). Index 0 is reserved as
// a sentinel and is never a valid suite component.
const (
	KEMReserved         uint16 = 0x0000
	KEMP256HKDFSHA256   uint16 = 0x0010
	KEMP384HKDFSHA384   uint16 = 0x0011
	KEMP521HKDFSHA512   uint16 = 0x0012
	KEMX25519HKDFSHA256 uint16 = 0x0020
	KEMX448HKDFSHA512   uint16 = 0x0021
)

// IANA HPKE KDF identifiers (RFC 9180 section 7.2).
const (
	KDFReserved   uint16 = 0x0000
	KDFHKDFSHA256 uint16 = 0x0001
	KDFHKDFSHA384 uint16 = 0x0002
	KDFHKDFSHA512 uint16 = 0x0003
)

// IANA HPKE AEAD identifiers (RFC 9180 section 7.3). AEADExportOnly is
// reserved for suites that only ever use Export, never Seal/Open.
const (
	AEADReserved         uint16 = 0x0000
	AEADAES128GCM        uint16 = 0x0001
	AEADAES256GCM        uint16 = 0x0002
	AEADChaCha20Poly1305 uint16 = 0x0003
	AEADExportOnly       uint16 = 0xFFFF
)

type kemInfo struct {
	id        uint16
	name      string
	scheme    func() kem.Scheme
	secretLen uint16
	encLen    uint16
	pubLen    uint16
	privLen   uint16
	fipsOK    bool
}

type kdfInfo struct {
	id      uint16
	name    string
	hashFn  func() hash.Hash
	hashLen uint16
}

type aeadInfo struct {
	id       uint16
	name     string
	keyLen   uint16
	nonceLen uint16
	tagLen   uint16
	newAEAD  func(key []byte) (cipher.AEAD, error)
	fipsOK   bool
}

var kemTable = map[uint16]kemInfo{
	KEMP256HKDFSHA256: {
		id: KEMP256HKDFSHA256, name: "DHKEM(P-256, HKDF-SHA256)",
		scheme: kem.DHP256HKDFSHA256, secretLen: 32, encLen: 65, pubLen: 65, privLen: 32,
		fipsOK: true,
	},
	KEMP384HKDFSHA384: {
		id: KEMP384HKDFSHA384, name: "DHKEM(P-384, HKDF-SHA384)",
		scheme: kem.DHP384HKDFSHA384, secretLen: 48, encLen: 97, pubLen: 97, privLen: 48,
		fipsOK: true,
	},
	KEMP521HKDFSHA512: {
		id: KEMP521HKDFSHA512, name: "DHKEM(P-521, HKDF-SHA512)",
		scheme: kem.DHP521HKDFSHA512, secretLen: 64, encLen: 133, pubLen: 133, privLen: 66,
		fipsOK: true,
	},
	KEMX25519HKDFSHA256: {
		id: KEMX25519HKDFSHA256, name: "DHKEM(X25519, HKDF-SHA256)",
		scheme: kem.DHX25519HKDFSHA256, secretLen: 32, encLen: 32, pubLen: 32, privLen: 32,
		fipsOK: false,
	},
	KEMX448HKDFSHA512: {
		id: KEMX448HKDFSHA512, name: "DHKEM(X448, HKDF-SHA512)",
		scheme: kem.DHX448HKDFSHA512, secretLen: 64, encLen: 56, pubLen: 56, privLen: 56,
		fipsOK: false,
	},
}

var kdfTable = map[uint16]kdfInfo{
	KDFHKDFSHA256: {id: KDFHKDFSHA256, name: "HKDF-SHA256", hashFn: sha256.New, hashLen: 32},
	KDFHKDFSHA384: {id: KDFHKDFSHA384, name: "HKDF-SHA384", hashFn: sha512.New384, hashLen: 48},
	KDFHKDFSHA512: {id: KDFHKDFSHA512, name: "HKDF-SHA512", hashFn: sha512.New, hashLen: 64},
}

var aeadTable = map[uint16]aeadInfo{
	AEADAES128GCM: {
		id: AEADAES128GCM, name: "AES-128-GCM", keyLen: 16, nonceLen: 12, tagLen: 16,
		newAEAD: newAESGCM, fipsOK: true,
	},
	AEADAES256GCM: {
		id: AEADAES256GCM, name: "AES-256-GCM", keyLen: 32, nonceLen: 12, tagLen: 16,
		newAEAD: newAESGCM, fipsOK: true,
	},
	AEADChaCha20Poly1305: {
		id: AEADChaCha20Poly1305, name: "ChaCha20Poly1305", keyLen: chacha20poly1305.KeySize, nonceLen: 12, tagLen: 16,
		newAEAD: chacha20poly1305.New, fipsOK: false,
	},
	AEADExportOnly: {
		id: AEADExportOnly, name: "Export-Only", keyLen: 0, nonceLen: 0, tagLen: 0,
		newAEAD: nil, fipsOK: true,
	},
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func lookupKEM(id uint16) (kemInfo, error) {
	info, ok := kemTable[id]
	if !ok {
		return kemInfo{}, wrapErr(UnsupportedSuite, fmt.Errorf("unknown kem id 0x%04x", id))
	}
	if !info.fipsOK && hpkecore.InFIPSMode() {
		return kemInfo{}, wrapErr(UnsupportedSuite, fmt.Errorf("kem 0x%04x is not FIPS-approved", id))
	}
	return info, nil
}

func lookupKDF(id uint16) (kdfInfo, error) {
	info, ok := kdfTable[id]
	if !ok {
		return kdfInfo{}, wrapErr(UnsupportedSuite, fmt.Errorf("unknown kdf id 0x%04x", id))
	}
	return info, nil
}

func lookupAEAD(id uint16) (aeadInfo, error) {
	info, ok := aeadTable[id]
	if !ok {
		return aeadInfo{}, wrapErr(UnsupportedSuite, fmt.Errorf("unknown aead id 0x%04x", id))
	}
	if !info.fipsOK && hpkecore.InFIPSMode() {
		return aeadInfo{}, wrapErr(UnsupportedSuite, fmt.Errorf("aead 0x%04x is not FIPS-approved", id))
	}
	return info, nil
}

// SuiteSupported reports whether every component of s is registered (and,
// when FIPS mode is enabled, FIPS-approved).
func SuiteSupported(s Suite) bool {
	if _, err := lookupKEM(s.KEMID); err != nil {
		return false
	}
	if _, err := lookupKDF(s.KDFID); err != nil {
		return false
	}
	if _, err := lookupAEAD(s.AEADID); err != nil {
		return false
	}
	return true
}
