package hpke

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Suite is the (kem_id, kdf_id, aead_id) triple that selects every
// algorithm an HPKE operation uses. It travels by value: callers pass it
// around as plain data, never as a pointer to shared state.
type Suite struct {
	KEMID  uint16
	KDFID  uint16
	AEADID uint16
}

// Supported reports whether every component of the suite is registered.
func (s Suite) Supported() bool {
	return SuiteSupported(s)
}

func (s Suite) String() string {
	return fmt.Sprintf("(kem=0x%04x, kdf=0x%04x, aead=0x%04x)", s.KEMID, s.KDFID, s.AEADID)
}

// suiteID builds the HPKE-context suite_id: "HPKE" || I2OSP(kem_id, 2) ||
// I2OSP(kdf_id, 2) || I2OSP(aead_id, 2). This is distinct from the
// KEM-context suite_id ("KEM" || I2OSP(kem_id, 2)) the kem package uses
// internally for ExtractAndExpand.
func (s Suite) suiteID() []byte {
	var out [10]byte
	out[0], out[1], out[2], out[3] = 'H', 'P', 'K', 'E'
	binary.BigEndian.PutUint16(out[4:6], s.KEMID)
	binary.BigEndian.PutUint16(out[6:8], s.KDFID)
	binary.BigEndian.PutUint16(out[8:10], s.AEADID)
	return out[:]
}

func (s Suite) labeledExtract(kdf kdfInfo, salt, label, ikm []byte) []byte {
	// labeled_ikm = concat("HPKE-v1", suite_id, label, ikm)
	labeledIKM := append([]byte("HPKE-v1"), s.suiteID()...)
	labeledIKM = append(labeledIKM, label...)
	labeledIKM = append(labeledIKM, ikm...)

	return hkdf.Extract(kdf.hashFn, labeledIKM, salt)
}

func (s Suite) labeledExpand(kdf kdfInfo, prk, label, info []byte, outputLen uint16) ([]byte, error) {
	if maxLen := 255 * uint32(kdf.hashLen); uint32(outputLen) > maxLen {
		return nil, fmt.Errorf("expansion length %d exceeds limit %d", outputLen, maxLen)
	}

	labeledInfo := make([]byte, 2, 2+7+10+len(label)+len(info))
	// labeled_info = concat(I2OSP(L, 2), "HPKE-v1", suite_id, label, info)
	binary.BigEndian.PutUint16(labeledInfo[0:2], outputLen)
	labeledInfo = append(labeledInfo, []byte("HPKE-v1")...)
	labeledInfo = append(labeledInfo, s.suiteID()...)
	labeledInfo = append(labeledInfo, label...)
	labeledInfo = append(labeledInfo, info...)

	r := hkdf.Expand(kdf.hashFn, prk, labeledInfo)
	out := make([]byte, outputLen)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("unable to generate value from kdf: %w", err)
	}

	return out, nil
}
