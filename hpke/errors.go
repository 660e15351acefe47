package hpke

import "fmt"

// Kind classifies an Error. Each value is a distinct failure mode; none
// collapse into another.
type Kind int

const (
	// UnsupportedSuite means a suite component is not in the algorithm
	// registry.
	UnsupportedSuite Kind = iota + 1
	// BadMode means the mode value is not one of Base, PSK, Auth, PSKAuth.
	BadMode
	// BadPskUsage means the PSK parameters are inconsistent with the mode.
	BadPskUsage
	// BadInput means a required buffer was nil, empty, the wrong length, or
	// exceeded a hard limit.
	BadInput
	// BadKey means private key import failed through every decode attempt.
	BadKey
	// BufferTooSmall means a caller-provided output buffer was insufficient.
	BufferTooSmall
	// OpenFailed means AEAD authentication failed. This is the only kind
	// surfaced on decryption failure; internal byte-level distinctions are
	// collapsed so a caller cannot use the error to build a padding oracle.
	OpenFailed
	// InternalCryptoError means the underlying primitive backend (KEM, AEAD,
	// KDF) failed in a way unrelated to caller input.
	InternalCryptoError
)

func (k Kind) String() string {
	switch k {
	case UnsupportedSuite:
		return "unsupported suite"
	case BadMode:
		return "bad mode"
	case BadPskUsage:
		return "bad psk usage"
	case BadInput:
		return "bad input"
	case BadKey:
		return "bad key"
	case BufferTooSmall:
		return "buffer too small"
	case OpenFailed:
		return "open failed"
	case InternalCryptoError:
		return "internal crypto error"
	default:
		return "unknown"
	}
}

// Error is the error type every exported hpke operation returns on failure.
// Its Kind field is stable and intended for programmatic dispatch; its
// wrapped Err, when present, carries diagnostic detail only.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("hpke: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("hpke: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, ignoring the
// wrapped cause. This lets callers match on a sentinel regardless of detail:
// errors.Is(err, hpke.ErrOpenFailed).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel errors, one per Kind, for use with errors.Is.
var (
	ErrUnsupportedSuite    = &Error{Kind: UnsupportedSuite}
	ErrBadMode             = &Error{Kind: BadMode}
	ErrBadPskUsage         = &Error{Kind: BadPskUsage}
	ErrBadInput            = &Error{Kind: BadInput}
	ErrBadKey              = &Error{Kind: BadKey}
	ErrBufferTooSmall      = &Error{Kind: BufferTooSmall}
	ErrOpenFailed          = &Error{Kind: OpenFailed}
	ErrInternalCryptoError = &Error{Kind: InternalCryptoError}
)

func wrapErr(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}
