package hpke

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S5: GREASE output lengths match the chosen suite's KEM public-key size and
// the caller's requested ciphertext length, regardless of which suite ends
// up sampled.
func TestGreaseWithExplicitSuite(t *testing.T) {
	t.Parallel()

	suite := Suite{KEMX25519HKDFSHA256, KDFHKDFSHA256, AEADAES128GCM}
	got, pub, ct, err := Grease(&suite, 48)
	require.NoError(t, err)
	require.Equal(t, suite, got)
	require.Len(t, pub, 32)
	require.Len(t, ct, 48)
}

func TestGreaseWithNilSuiteSamplesRandom(t *testing.T) {
	t.Parallel()

	suite, pub, ct, err := Grease(nil, 16)
	require.NoError(t, err)
	require.True(t, suite.Supported())

	info, err := lookupKEM(suite.KEMID)
	require.NoError(t, err)
	require.Len(t, pub, int(info.pubLen))
	require.Len(t, ct, 16)
}

func TestGreaseIsIndistinguishableAcrossCalls(t *testing.T) {
	t.Parallel()

	suite := Suite{KEMX25519HKDFSHA256, KDFHKDFSHA256, AEADAES128GCM}
	_, pub1, ct1, err := Grease(&suite, 32)
	require.NoError(t, err)
	_, pub2, ct2, err := Grease(&suite, 32)
	require.NoError(t, err)

	require.NotEqual(t, pub1, pub2)
	require.NotEqual(t, ct1, ct2)
}

func TestGreaseRejectsUnsupportedSuitePreferenceBySampling(t *testing.T) {
	t.Parallel()

	// An unsupported suiteIn is not an error: Grease falls back to sampling
	// a random registered suite rather than propagating UnsupportedSuite,
	// since GREASE traffic is decoy traffic the wire format never validates.
	bogus := Suite{KEMID: 0xdead, KDFID: 0xbeef, AEADID: 0xfeed}
	suite, pub, ct, err := Grease(&bogus, 8)
	require.NoError(t, err)
	require.True(t, suite.Supported())
	require.NotEqual(t, bogus, suite)
	require.NotEmpty(t, pub)
	require.Len(t, ct, 8)
}
