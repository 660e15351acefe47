package hpke

import "github.com/nyxhpke/hpke-core/kem"

type callOptions struct {
	psk, pskID []byte
	skS        kem.PrivateKey
	pkS        kem.PublicKey
	seq        uint64
}

// Option configures an optional Seal or Open parameter.
type Option func(*callOptions)

// WithPSK supplies the pre-shared key and its identifier, required in
// ModePSK and ModePSKAuth and rejected in ModeBase and ModeAuth.
func WithPSK(psk, pskID []byte) Option {
	return func(o *callOptions) {
		o.psk = psk
		o.pskID = pskID
	}
}

// WithSenderKey supplies the sender's static private key to Seal, required
// in ModeAuth and ModePSKAuth.
func WithSenderKey(skS kem.PrivateKey) Option {
	return func(o *callOptions) {
		o.skS = skS
	}
}

// WithSenderPublicKey supplies the sender's static public key to Open,
// required in ModeAuth and ModePSKAuth so the receiver can verify the
// binding AuthEncap established.
func WithSenderPublicKey(pkS kem.PublicKey) Option {
	return func(o *callOptions) {
		o.pkS = pkS
	}
}

// WithSequence XORs seq, right-aligned big-endian, into base_nonce before
// sealing or opening. This is not part of vanilla RFC 9180 single-shot
// HPKE (see computeNonce); omit it and Seal/Open are byte-identical to the
// RFC.
func WithSequence(seq uint64) Option {
	return func(o *callOptions) {
		o.seq = seq
	}
}

func resolveOptions(opts []Option) callOptions {
	var o callOptions
	o.psk = defaultPSK
	o.pskID = defaultPSKID
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
