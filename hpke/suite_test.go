package hpke

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuiteID(t *testing.T) {
	t.Parallel()

	s := Suite{KEMID: KEMX25519HKDFSHA256, KDFID: KDFHKDFSHA256, AEADID: AEADAES128GCM}
	require.Equal(t, "HPKE"+string([]byte{0x00, 0x20, 0x00, 0x01, 0x00, 0x01}), string(s.suiteID()))
}

// Exercises the RFC 9180 A.1 base-mode key schedule context derivation
// against referenceLabeledExtract/referenceLabeledExpand (vector_test.go), a
// second from-scratch rendering of the same label construction built
// directly on crypto/hmac: LabeledExtract/LabeledExpand must line up byte
// for byte with the oracle, not just produce the right-shaped output.
func TestLabeledExtractExpand(t *testing.T) {
	t.Parallel()

	s := Suite{KEMID: KEMX25519HKDFSHA256, KDFID: KDFHKDFSHA256, AEADID: AEADAES128GCM}
	kdf, err := lookupKDF(s.KDFID)
	require.NoError(t, err)

	sharedSecret := mustHex(t, "fe0e18c9f024ce43799ae393c7e8fe8fce9d218875e8227b0187c04e7d2ea1fc")
	secret := s.labeledExtract(kdf, sharedSecret, []byte("secret"), []byte(""))
	wantSecret := referenceLabeledExtract(sha256.New, referenceHPKESuiteID(s), sharedSecret, []byte("secret"), []byte(""))
	require.Equal(t, wantSecret, secret)

	key, err := s.labeledExpand(kdf, secret, []byte("key"), []byte{0x00}, 16)
	require.NoError(t, err)
	wantKey := referenceLabeledExpand(sha256.New, referenceHPKESuiteID(s), secret, []byte("key"), []byte{0x00}, 16)
	require.Equal(t, wantKey, key)
}

func TestLabeledExpandRejectsOversizeOutput(t *testing.T) {
	t.Parallel()

	s := Suite{KEMID: KEMX25519HKDFSHA256, KDFID: KDFHKDFSHA256, AEADID: AEADAES128GCM}
	kdf, err := lookupKDF(s.KDFID)
	require.NoError(t, err)

	_, err = s.labeledExpand(kdf, make([]byte, 32), []byte("key"), nil, 255*32+1)
	require.Error(t, err)
}
