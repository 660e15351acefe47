package hpke

import "github.com/nyxhpke/hpke-core/kem"

// KeyGen generates a fresh static key pair for the given KEM, returning the
// serialized public key and an opaque private key handle.
func KeyGen(kemID uint16) (pubBytes []byte, priv kem.PrivateKey, err error) {
	info, err := lookupKEM(kemID)
	if err != nil {
		return nil, nil, err
	}
	scheme := info.scheme()

	pk, sk, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, wrapErr(InternalCryptoError, err)
	}

	return scheme.SerializePublicKey(pk), sk, nil
}

// KeyGenRaw is KeyGen but returns both keys as raw byte encodings, for
// callers that want to persist the private key themselves rather than hold
// a live handle.
func KeyGenRaw(kemID uint16) (pubBytes, privBytes []byte, err error) {
	info, err := lookupKEM(kemID)
	if err != nil {
		return nil, nil, err
	}
	scheme := info.scheme()

	pk, sk, err := scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, wrapErr(InternalCryptoError, err)
	}

	return scheme.SerializePublicKey(pk), scheme.SerializePrivateKey(sk), nil
}
