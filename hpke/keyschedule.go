package hpke

import (
	"bytes"
	"crypto/cipher"
	"fmt"
)

var (
	defaultPSK   = []byte("")
	defaultPSKID = []byte("")
)

// verifyPSKInputs checks that psk and pskID are present exactly when the
// mode requires them: both present in PSK/PSKAuth modes, both absent in
// Base/Auth modes. A psk without a pskID (or vice versa) is always
// rejected, regardless of mode.
func verifyPSKInputs(m Mode, psk, pskID []byte) error {
	gotPSK := !bytes.Equal(psk, defaultPSK)
	gotPSKID := !bytes.Equal(pskID, defaultPSKID)

	switch {
	case gotPSK && !gotPSKID, !gotPSK && gotPSKID:
		return wrapErr(BadPskUsage, fmt.Errorf("psk and psk_id must be provided together"))
	default:
	}

	switch {
	case (m == ModeBase || m == ModeAuth) && gotPSK:
		return wrapErr(BadPskUsage, fmt.Errorf("psk input provided for mode %s which does not use one", m))
	case (m == ModePSK || m == ModePSKAuth) && !gotPSK:
		return wrapErr(BadPskUsage, fmt.Errorf("mode %s requires a psk input", m))
	}

	return nil
}

// Exporter is the capability Seal and Open hand back alongside their
// ciphertext/plaintext: RFC 9180 section 5.3's Export() operation, bound to
// the key schedule that call established. Callers that don't need exported
// keying material can ignore it; callers that do must still call Zeroize
// once they're done with it, same as any other sensitive key material.
type Exporter interface {
	Export(exporterContext []byte, outputLen uint16) ([]byte, error)
	Zeroize()
}

// KeyScheduleOutput holds the per-message symmetric material derived from a
// KEM shared secret: the AEAD key, the base nonce seal/open XOR a sequence
// number into, and the exporter secret. It is sensitive and should be
// zeroized once the caller is done with it.
type KeyScheduleOutput struct {
	suite          Suite
	kdf            kdfInfo
	aead           aeadInfo
	Key            []byte
	BaseNonce      []byte
	ExporterSecret []byte
}

// Export derives application-specific keying material from the exporter
// secret, per RFC 9180 section 5.3. Valid in every mode, including
// AEADExportOnly suites that cannot Seal or Open at all.
func (o *KeyScheduleOutput) Export(exporterContext []byte, outputLen uint16) ([]byte, error) {
	if len(exporterContext) > 64 {
		return nil, wrapErr(BadInput, fmt.Errorf("exporter context must not exceed 64 bytes"))
	}
	out, err := o.suite.labeledExpand(o.kdf, o.ExporterSecret, []byte("sec"), exporterContext, outputLen)
	if err != nil {
		return nil, wrapErr(InternalCryptoError, err)
	}
	return out, nil
}

// Zeroize overwrites every sensitive buffer this output owns. Callers must
// call it once done, on every exit path.
func (o *KeyScheduleOutput) Zeroize() {
	wipe(o.Key)
	wipe(o.BaseNonce)
	wipe(o.ExporterSecret)
}

func wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// keySchedule implements RFC 9180 section 5.1: it derives (key, base_nonce,
// exporter_secret) from a KEM shared secret, the mode, info, and an
// optional PSK.
func keySchedule(suite Suite, m Mode, sharedSecret, info, psk, pskID []byte) (*KeyScheduleOutput, error) {
	if !m.valid() {
		return nil, wrapErr(BadMode, fmt.Errorf("mode value %d is not one of base/psk/auth/psk+auth", m))
	}
	switch {
	case len(info) > 64:
		return nil, wrapErr(BadInput, fmt.Errorf("info must not exceed 64 bytes"))
	case len(psk) > 64:
		return nil, wrapErr(BadInput, fmt.Errorf("psk must not exceed 64 bytes"))
	case len(pskID) > 64:
		return nil, wrapErr(BadInput, fmt.Errorf("psk_id must not exceed 64 bytes"))
	}

	if err := verifyPSKInputs(m, psk, pskID); err != nil {
		return nil, err
	}

	kdf, err := lookupKDF(suite.KDFID)
	if err != nil {
		return nil, err
	}
	aead, err := lookupAEAD(suite.AEADID)
	if err != nil {
		return nil, err
	}

	pskIDHash := suite.labeledExtract(kdf, []byte(""), []byte("psk_id_hash"), pskID)
	infoHash := suite.labeledExtract(kdf, []byte(""), []byte("info_hash"), info)

	// key_schedule_context = concat(mode, psk_id_hash, info_hash)
	keyScheduleContext := append([]byte{byte(m)}, pskIDHash...)
	keyScheduleContext = append(keyScheduleContext, infoHash...)

	secret := suite.labeledExtract(kdf, sharedSecret, []byte("secret"), psk)

	var key, baseNonce []byte
	if suite.AEADID != AEADExportOnly {
		key, err = suite.labeledExpand(kdf, secret, []byte("key"), keyScheduleContext, aead.keyLen)
		if err != nil {
			return nil, wrapErr(InternalCryptoError, fmt.Errorf("deriving key: %w", err))
		}
		baseNonce, err = suite.labeledExpand(kdf, secret, []byte("base_nonce"), keyScheduleContext, aead.nonceLen)
		if err != nil {
			return nil, wrapErr(InternalCryptoError, fmt.Errorf("deriving base nonce: %w", err))
		}
	}

	exporterSecret, err := suite.labeledExpand(kdf, secret, []byte("exp"), keyScheduleContext, kdf.hashLen)
	if err != nil {
		return nil, wrapErr(InternalCryptoError, fmt.Errorf("deriving exporter secret: %w", err))
	}

	wipe(secret)
	wipe(keyScheduleContext)

	return &KeyScheduleOutput{
		suite:          suite,
		kdf:            kdf,
		aead:           aead,
		Key:            key,
		BaseNonce:      baseNonce,
		ExporterSecret: exporterSecret,
	}, nil
}

func (o *KeyScheduleOutput) newAEAD() (cipher.AEAD, error) {
	if o.aead.id == AEADExportOnly {
		return nil, wrapErr(BadInput, fmt.Errorf("suite is export-only, seal/open are unavailable"))
	}
	a, err := o.aead.newAEAD(o.Key)
	if err != nil {
		return nil, wrapErr(InternalCryptoError, err)
	}
	return a, nil
}
