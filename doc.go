// Package hpkecore provides RFC 9180 Hybrid Public Key Encryption (HPKE)
// primitives: algorithm registry, labeled key derivation, KEM execution,
// key schedule, single-shot seal/open, and the suite utilities (parser,
// random suite sampler, GREASE producer, ciphertext-length predictor) an
// Encrypted ClientHello client needs on top of the RFC.
//
// The HPKE engine itself lives in the hpke subpackage; the underlying
// KEM schemes live in the kem subpackage. This package only holds
// process-wide flags, which the hpke algorithm registry consults.
package hpkecore
