package kem

import (
	"crypto/ecdh"
	"crypto/sha256"
	"crypto/sha512"
)

// DHP256HKDFSHA256 defines a KEM Suite based on P-256 curve with HKDF-SHA256
// for shared secret derivation.
func DHP256HKDFSHA256() Scheme {
	return &dhkem{
		kemID:          0x10,
		ops:            stdCurve{ecdh.P256()},
		fh:             sha256.New,
		nSecret:        32,
		nEnc:           65,
		nPk:            65,
		nSk:            32,
		keyDeriverFunc: bitmaskDeriver(0xFF),
	}
}

// DHP384HKDFSHA384 defines a KEM Suite based on P-384 curve with HKDF-SHA384
// for shared secret derivation.
func DHP384HKDFSHA384() Scheme {
	return &dhkem{
		kemID:          0x11,
		ops:            stdCurve{ecdh.P384()},
		fh:             sha512.New384,
		nSecret:        48,
		nEnc:           97,
		nPk:            97,
		nSk:            48,
		keyDeriverFunc: bitmaskDeriver(0xFF),
	}
}

// DHP521HKDFSHA512 defines a KEM Suite based on P-521 curve with HKDF-SHA512
// for shared secret derivation.
func DHP521HKDFSHA512() Scheme {
	return &dhkem{
		kemID:          0x12,
		ops:            stdCurve{ecdh.P521()},
		fh:             sha512.New,
		nSecret:        64,
		nEnc:           133,
		nPk:            133,
		nSk:            66,
		keyDeriverFunc: bitmaskDeriver(0x01),
	}
}

// DHX25519HKDFSHA256 defines a KEM Suite based on Curve25519 with
// HKDF-SHA256 for shared secret derivation.
func DHX25519HKDFSHA256() Scheme {
	return &dhkem{
		kemID:          0x20,
		ops:            stdCurve{ecdh.X25519()},
		fh:             sha256.New,
		nSecret:        32,
		nEnc:           32,
		nPk:            32,
		nSk:            32,
		keyDeriverFunc: xDeriver,
	}
}

// DHX448HKDFSHA512 defines a KEM Suite based on Curve448 with HKDF-SHA512
// for shared secret derivation.
func DHX448HKDFSHA512() Scheme {
	return &dhkem{
		kemID:          0x21,
		ops:            x448Curve{},
		fh:             sha512.New,
		nSecret:        64,
		nEnc:           56,
		nPk:            56,
		nSk:            56,
		keyDeriverFunc: xDeriver,
	}
}
