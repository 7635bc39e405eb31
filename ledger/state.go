// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// Kind - type code for records
type Kind uint64

// enumerate the possible record kinds
const (
	NullKind Kind = iota

	KindAsset
	KindRequest
	KindLock

	// this item must be last
	InvalidKind
)

// internal conversion
func kindToString(kind Kind) ([]byte, error) {
	switch kind {
	case KindAsset:
		return []byte("asset"), nil
	case KindRequest:
		return []byte("reissuance-request"), nil
	case KindLock:
		return []byte("reissuance-lock"), nil
	default:
		return []byte{}, fault.ErrInvalidKind
	}
}

// String - convert a kind to its string form
func (kind Kind) String() string {
	s, err := kindToString(kind)
	if nil != err {
		logger.Panicf("invalid kind enumeration: %d", kind)
	}
	return string(s)
}

// MarshalText - convert a kind to text
func (kind Kind) MarshalText() ([]byte, error) {
	return kindToString(kind)
}

// UnmarshalText - convert a kind from text
func (kind *Kind) UnmarshalText(s []byte) error {
	for k := NullKind + 1; k < InvalidKind; k += 1 {
		t, _ := kindToString(k)
		if string(t) == string(s) {
			*kind = k
			return nil
		}
	}
	return fault.ErrInvalidKind
}

// State - capability contract for a record the protocol can handle
//
// the reissuance machinery is written once against this interface, not
// per record type
type State interface {
	Kind() Kind
	UniqueId() UniqueId
	Issuer() Party
	Owner() Party
	Participants() []Party
	Pack() []byte
}
