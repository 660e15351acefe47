// SPDX-FileCopyrightText: 2023-present Datadog, Inc.
// SPDX-License-Identifier: Apache-2.0

package hpkecore

import (
	"sync/atomic"

	"github.com/nyxhpke/hpke-core/log"
)

type atomicBool int32

func (b *atomicBool) isSet() bool { return atomic.LoadInt32((*int32)(b)) != 0 }
func (b *atomicBool) setTrue()    { atomic.StoreInt32((*int32)(b), 1) }
func (b *atomicBool) setFalse()   { atomic.StoreInt32((*int32)(b), 0) }

// -----------------------------------------------------------------------------

var fipsMode atomicBool

// InFIPSMode returns the FIPS compliance mode flag status.
//
// The algorithm registry consults this flag to reject KEMs and AEADs that
// have no FIPS 140-3 approved implementation (X25519, X448,
// ChaCha20-Poly1305) even though they are otherwise registered suite
// components.
func InFIPSMode() bool {
	return fipsMode.isSet()
}

// SetFIPSMode enables the FIPS compliance mode and returns a function to
// revert the configuration.
//
// Calling this method multiple times once the flag is enabled produces no effect.
func SetFIPSMode() (revert func()) {
	// Prevent multiple calls to indirectly disable the flag
	if fipsMode.isSet() {
		return func() {}
	}

	fipsMode.setTrue()
	log.Level(log.DebugLevel).Message("hpke-core: FIPS mode enabled")

	return func() {
		fipsMode.setFalse()
		log.Level(log.DebugLevel).Message("hpke-core: FIPS mode disabled")
	}
}
