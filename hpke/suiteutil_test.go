package hpke

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// S6: mnemonic and numeric (decimal/hex) tokens must parse to the same
// suite, case-insensitively; wrong token counts are rejected.
func TestParseSuiteMnemonicAndNumeric(t *testing.T) {
	t.Parallel()

	want := Suite{KEMID: KEMP256HKDFSHA256, KDFID: KDFHKDFSHA256, AEADID: AEADAES128GCM}

	got, err := ParseSuite("P-256,SHA256,AES-128-GCM")
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = ParseSuite("p-256,sha256,aes-128-gcm")
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = ParseSuite("0x10,1,1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = ParseSuite("16,0x01,1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestParseSuiteRejectsWrongTokenCount(t *testing.T) {
	t.Parallel()

	_, err := ParseSuite("P-256,SHA256")
	require.ErrorIs(t, err, ErrBadInput)

	_, err = ParseSuite("P-256,SHA256,AES-128-GCM,extra")
	require.ErrorIs(t, err, ErrBadInput)
}

func TestParseSuiteRejectsUnknownMnemonic(t *testing.T) {
	t.Parallel()

	_, err := ParseSuite("not-a-kem,SHA256,AES-128-GCM")
	require.ErrorIs(t, err, ErrBadInput)
}

// S4 (parser half of the invariant): suite_parse(format(s)) == s for every
// registered suite the formatter knows a mnemonic for.
func TestParseFormatRoundtrip(t *testing.T) {
	t.Parallel()

	for _, suite := range allSuites() {
		suite := suite
		t.Run(FormatSuite(suite), func(t *testing.T) {
			t.Parallel()

			got, err := ParseSuite(FormatSuite(suite))
			require.NoError(t, err)
			require.Equal(t, suite, got)
		})
	}
}

func TestRandomSuiteAlwaysSupportedAndNeverExportOnly(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		suite, err := RandomSuite()
		require.NoError(t, err)
		require.True(t, suite.Supported())
		require.NotEqual(t, uint16(AEADExportOnly), suite.AEADID)
		require.NotEqual(t, KEMReserved, suite.KEMID)
		require.NotEqual(t, KDFReserved, suite.KDFID)
	}
}

// S2: expansion(suite, n) == n + 16 for every registered AEAD that can seal
// (AEADExportOnly has no tag and is not covered here).
func TestExpansionAddsTagLen(t *testing.T) {
	t.Parallel()

	cases := []struct {
		aead uint16
		tag  int
	}{
		{AEADAES128GCM, 16},
		{AEADAES256GCM, 16},
		{AEADChaCha20Poly1305, 16},
	}

	for _, c := range cases {
		suite := Suite{KEMX25519HKDFSHA256, KDFHKDFSHA256, c.aead}
		got, err := Expansion(suite, 100)
		require.NoError(t, err)
		require.Equal(t, 100+c.tag, got)
	}
}

func TestExpansionRejectsUnsupportedAEAD(t *testing.T) {
	t.Parallel()

	suite := Suite{KEMX25519HKDFSHA256, KDFHKDFSHA256, 0xdead}
	_, err := Expansion(suite, 10)
	require.ErrorIs(t, err, ErrUnsupportedSuite)
}
