package hpke

import "encoding/binary"

// computeNonce XORs seq, right-aligned and big-endian, into the low-order
// bytes of baseNonce. This is not part of vanilla RFC 9180 single-shot
// HPKE: it exists so a caller can layer per-message sequence numbers on top
// of the single-shot API, for ECH retry / HelloRetryRequest handling. When
// seq is zero, the result is byte-identical to baseNonce, so suites that
// never pass WithSequence get plain RFC 9180 behavior.
func computeNonce(baseNonce []byte, seq uint64) []byte {
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)

	nonce := make([]byte, len(baseNonce))
	copy(nonce, baseNonce)

	if len(nonce) < len(seqBytes) {
		// Suite's nonce is shorter than 8 bytes: XOR only the bytes that
		// exist, right-aligned, dropping the unreachable high-order seq bits.
		off := len(seqBytes) - len(nonce)
		for i := range nonce {
			nonce[i] ^= seqBytes[off+i]
		}
		return nonce
	}

	off := len(nonce) - len(seqBytes)
	for i := range seqBytes {
		nonce[off+i] ^= seqBytes[i]
	}
	return nonce
}
