// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// UniqueIdLength - number of bytes in a record identity
const UniqueIdLength = 16

// UniqueId - the stable identity of a record
//
// preserved across transfers and across reissuance; only exit retires it
type UniqueId [UniqueIdLength]byte

// NewUniqueId - create a random record identity
func NewUniqueId() UniqueId {
	id := UniqueId{}
	if _, err := rand.Read(id[:]); err != nil {
		logger.Panicf("unique id random read failed: %s", err)
	}
	return id
}

// String - convert to hex string for use by the fmt package (for %s)
func (id UniqueId) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText - convert to hex text
func (id UniqueId) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(UniqueIdLength)
	buffer := make([]byte, size)
	hex.Encode(buffer, id[:])
	return buffer, nil
}

// UnmarshalText - convert from hex text
func (id *UniqueId) UnmarshalText(s []byte) error {
	if hex.EncodedLen(UniqueIdLength) != len(s) {
		return fault.ErrUniqueIdLength
	}
	buffer := make([]byte, UniqueIdLength)
	if _, err := hex.Decode(buffer, s); err != nil {
		return err
	}
	copy(id[:], buffer)
	return nil
}
