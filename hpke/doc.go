// Package hpke implements RFC 9180 Hybrid Public Key Encryption: the
// algorithm registry, labeled key derivation, key schedule, and single-shot
// seal/open operations, plus the suite utilities (string parsing, random
// sampling, GREASE production, ciphertext-length prediction) and the
// private-key import heuristic an Encrypted ClientHello client needs on top
// of the RFC.
//
// HPKE here is single-shot only: Seal and Open each run one full
// encapsulate-schedule-AEAD pass and return. There is no long-lived
// sender/receiver context; callers that need per-message sequence numbers
// (for ECH retry/HRR handling) pass WithSequence explicitly on each call.
package hpke
