package kem

import (
	"crypto/ecdh"
	"errors"
	"fmt"
	"io"

	x448 "git.schwanenlied.me/yawning/x448.git"
)

// PublicKey is an opaque KEM public key. Every curve family (NIST or
// Montgomery) implements it so the dhkem engine can stay curve-agnostic.
type PublicKey interface {
	// Bytes returns the fixed-length encoded form of the key: uncompressed
	// SEC1 for NIST curves, the raw little-endian u-coordinate for
	// Montgomery curves.
	Bytes() []byte
}

// PrivateKey is an opaque KEM private key.
type PrivateKey interface {
	Public() PublicKey
	Bytes() []byte
	// ECDH computes the shared Diffie-Hellman value with peer. It fails if
	// peer does not belong to the same curve family.
	ECDH(peer PublicKey) ([]byte, error)
}

// curveOps abstracts key generation/parsing over a concrete curve so that
// dhkem does not need to special-case NIST curves vs. Montgomery curves.
type curveOps interface {
	GenerateKey(rand io.Reader) (PrivateKey, error)
	NewPrivateKey(raw []byte) (PrivateKey, error)
	NewPublicKey(raw []byte) (PublicKey, error)
}

// -----------------------------------------------------------------------------
// crypto/ecdh backed curves: P-256, P-384, P-521, X25519.

type stdCurve struct {
	curve ecdh.Curve
}

func (c stdCurve) GenerateKey(rand io.Reader) (PrivateKey, error) {
	sk, err := c.curve.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("unable to generate key pair from the curve: %w", err)
	}
	return stdPrivateKey{sk}, nil
}

func (c stdCurve) NewPrivateKey(raw []byte) (PrivateKey, error) {
	sk, err := c.curve.NewPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return stdPrivateKey{sk}, nil
}

func (c stdCurve) NewPublicKey(raw []byte) (PublicKey, error) {
	pk, err := c.curve.NewPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialization, err)
	}
	return stdPublicKey{pk}, nil
}

type stdPublicKey struct {
	pk *ecdh.PublicKey
}

func (p stdPublicKey) Bytes() []byte { return p.pk.Bytes() }

type stdPrivateKey struct {
	sk *ecdh.PrivateKey
}

func (p stdPrivateKey) Bytes() []byte       { return p.sk.Bytes() }
func (p stdPrivateKey) Public() PublicKey   { return stdPublicKey{p.sk.PublicKey()} }
func (p stdPrivateKey) ECDH(peer PublicKey) ([]byte, error) {
	pp, ok := peer.(stdPublicKey)
	if !ok {
		return nil, errors.New("peer public key does not belong to this curve")
	}
	z, err := p.sk.ECDH(pp.pk)
	if err != nil {
		return nil, fmt.Errorf("unable to compute key agreement: %w", err)
	}
	return z, nil
}

// -----------------------------------------------------------------------------
// Curve448, via the same curve arithmetic cloudflared vendors for its TLS
// 1.3 stack. crypto/ecdh has no Curve448 support, so this KEM owns its own
// thin key types instead of reusing the stdlib adapter above.

const x448KeySize = 56

type x448Curve struct{}

func (x448Curve) GenerateKey(rand io.Reader) (PrivateKey, error) {
	var scalar [x448KeySize]byte
	if _, err := io.ReadFull(rand, scalar[:]); err != nil {
		return nil, fmt.Errorf("unable to read random scalar: %w", err)
	}
	return x448Curve{}.NewPrivateKey(scalar[:])
}

func (x448Curve) NewPrivateKey(raw []byte) (PrivateKey, error) {
	if len(raw) != x448KeySize {
		return nil, fmt.Errorf("%w: invalid x448 private key size", ErrDeserialization)
	}
	sk := &x448PrivateKey{}
	copy(sk.scalar[:], raw)
	x448.ScalarBaseMult(&sk.pub, &sk.scalar)
	return sk, nil
}

func (x448Curve) NewPublicKey(raw []byte) (PublicKey, error) {
	if len(raw) != x448KeySize {
		return nil, fmt.Errorf("%w: invalid x448 public key size", ErrDeserialization)
	}
	pk := &x448PublicKey{}
	copy(pk.data[:], raw)
	return pk, nil
}

type x448PublicKey struct {
	data [x448KeySize]byte
}

func (p *x448PublicKey) Bytes() []byte {
	out := make([]byte, x448KeySize)
	copy(out, p.data[:])
	return out
}

type x448PrivateKey struct {
	scalar [x448KeySize]byte
	pub    [x448KeySize]byte
}

func (s *x448PrivateKey) Bytes() []byte {
	out := make([]byte, x448KeySize)
	copy(out, s.scalar[:])
	return out
}

func (s *x448PrivateKey) Public() PublicKey {
	return &x448PublicKey{data: s.pub}
}

func (s *x448PrivateKey) ECDH(peer PublicKey) ([]byte, error) {
	pp, ok := peer.(*x448PublicKey)
	if !ok {
		return nil, errors.New("peer public key does not belong to curve448")
	}

	var shared [x448KeySize]byte
	if ret := x448.ScalarMult(&shared, &s.scalar, &pp.data); ret != 0 {
		return nil, errors.New("low-order point rejected")
	}

	out := make([]byte, x448KeySize)
	copy(out, shared[:])
	return out, nil
}
