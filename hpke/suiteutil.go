package hpke

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

var kemMnemonics = map[string]uint16{
	"p-256": KEMP256HKDFSHA256, "p256": KEMP256HKDFSHA256,
	"p-384": KEMP384HKDFSHA384, "p384": KEMP384HKDFSHA384,
	"p-521": KEMP521HKDFSHA512, "p521": KEMP521HKDFSHA512,
	"x25519": KEMX25519HKDFSHA256,
	"x448":   KEMX448HKDFSHA512,
}

var kdfMnemonics = map[string]uint16{
	"sha256": KDFHKDFSHA256, "hkdf-sha256": KDFHKDFSHA256,
	"sha384": KDFHKDFSHA384, "hkdf-sha384": KDFHKDFSHA384,
	"sha512": KDFHKDFSHA512, "hkdf-sha512": KDFHKDFSHA512,
}

var aeadMnemonics = map[string]uint16{
	"aes-128-gcm": AEADAES128GCM, "aes128gcm": AEADAES128GCM,
	"aes-256-gcm": AEADAES256GCM, "aes256gcm": AEADAES256GCM,
	"chacha20poly1305": AEADChaCha20Poly1305, "chacha20-poly1305": AEADChaCha20Poly1305,
}

var kemCanonicalName = map[uint16]string{
	KEMP256HKDFSHA256: "P-256", KEMP384HKDFSHA384: "P-384", KEMP521HKDFSHA512: "P-521",
	KEMX25519HKDFSHA256: "X25519", KEMX448HKDFSHA512: "X448",
}

var kdfCanonicalName = map[uint16]string{
	KDFHKDFSHA256: "SHA256", KDFHKDFSHA384: "SHA384", KDFHKDFSHA512: "SHA512",
}

var aeadCanonicalName = map[uint16]string{
	AEADAES128GCM: "AES-128-GCM", AEADAES256GCM: "AES-256-GCM", AEADChaCha20Poly1305: "ChaCha20Poly1305",
}

// ParseSuite parses a comma-separated "kem,kdf,aead" triple where each
// token is either a mnemonic ("P-256", "x25519", "SHA256", "AES-128-GCM",
// "ChaCha20Poly1305", ...) or a decimal/hex IANA codepoint. Matching is
// case-insensitive. Exactly three tokens are required.
func ParseSuite(s string) (Suite, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Suite{}, wrapErr(BadInput, fmt.Errorf("expected exactly 3 comma-separated tokens, got %d", len(parts)))
	}

	kemID, err := parseToken(parts[0], kemMnemonics)
	if err != nil {
		return Suite{}, err
	}
	kdfID, err := parseToken(parts[1], kdfMnemonics)
	if err != nil {
		return Suite{}, err
	}
	aeadID, err := parseToken(parts[2], aeadMnemonics)
	if err != nil {
		return Suite{}, err
	}

	return Suite{KEMID: kemID, KDFID: kdfID, AEADID: aeadID}, nil
}

func parseToken(tok string, mnemonics map[string]uint16) (uint16, error) {
	tok = strings.TrimSpace(tok)
	if id, ok := mnemonics[strings.ToLower(tok)]; ok {
		return id, nil
	}
	v, err := strconv.ParseUint(tok, 0, 16)
	if err != nil {
		return 0, wrapErr(BadInput, fmt.Errorf("unrecognized suite token %q", tok))
	}
	return uint16(v), nil
}

// FormatSuite renders s using the canonical mnemonic vocabulary ParseSuite
// accepts, so that ParseSuite(FormatSuite(s)) == s for any registered suite
// whose AEAD is not AEADExportOnly. AEADExportOnly has no mnemonic: its token
// renders empty, and ParseSuite rejects the result.
func FormatSuite(s Suite) string {
	return fmt.Sprintf("%s,%s,%s",
		kemCanonicalName[s.KEMID], kdfCanonicalName[s.KDFID], aeadCanonicalName[s.AEADID])
}

// RandomSuite uniformly samples one registered entry from each of the KEM,
// KDF, and AEAD tables. The sentinel-zero reserved codepoint is never a
// table entry and so is never selected.
func RandomSuite() (Suite, error) {
	kemID, err := randomKey(kemTable)
	if err != nil {
		return Suite{}, wrapErr(InternalCryptoError, err)
	}
	kdfID, err := randomKey(kdfTable)
	if err != nil {
		return Suite{}, wrapErr(InternalCryptoError, err)
	}

	// AEADExportOnly is a registered table entry but not a suite a random
	// sampler should ever hand a caller expecting to seal/open.
	aeadIDs := make([]uint16, 0, len(aeadTable))
	for id := range aeadTable {
		if id == AEADExportOnly {
			continue
		}
		aeadIDs = append(aeadIDs, id)
	}
	aeadID, err := randomElem(aeadIDs)
	if err != nil {
		return Suite{}, wrapErr(InternalCryptoError, err)
	}

	return Suite{KEMID: kemID, KDFID: kdfID, AEADID: aeadID}, nil
}

func randomKey[V any](m map[uint16]V) (uint16, error) {
	ids := make([]uint16, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return randomElem(ids)
}

func randomElem(ids []uint16) (uint16, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ids))))
	if err != nil {
		return 0, fmt.Errorf("unable to sample randomness: %w", err)
	}
	return ids[n.Int64()], nil
}

// Expansion predicts the ciphertext length Seal will produce for a
// plaintext of length ptLen under suite: pt_len + tag_len(aead). Callers
// size buffers from this instead of guessing.
func Expansion(suite Suite, ptLen int) (int, error) {
	aead, err := lookupAEAD(suite.AEADID)
	if err != nil {
		return 0, err
	}
	return ptLen + int(aead.tagLen), nil
}
