// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// TxIdLength - number of bytes in a transaction id
const TxIdLength = 32

// TxId - the identifier of a committed transaction
// SHA3-256 digest of the packed transaction
// represented as hex text for JSON encoding
type TxId [TxIdLength]byte

// NewTxId - create a transaction id from a packed transaction
func NewTxId(record []byte) TxId {
	return TxId(sha3.Sum256(record))
}

// Bytes - convert to a byte slice
func (txId TxId) Bytes() []byte {
	return txId[:]
}

// String - convert to hex string for use by the fmt package (for %s)
func (txId TxId) String() string {
	return hex.EncodeToString(txId[:])
}

// GoString - convert to hex string for use by the fmt package (for %#v)
func (txId TxId) GoString() string {
	return "<txid:" + hex.EncodeToString(txId[:]) + ">"
}

// MarshalText - convert to hex text
func (txId TxId) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(TxIdLength)
	buffer := make([]byte, size)
	hex.Encode(buffer, txId[:])
	return buffer, nil
}

// UnmarshalText - convert from hex text
func (txId *TxId) UnmarshalText(s []byte) error {
	if hex.EncodedLen(TxIdLength) != len(s) {
		return fault.ErrTxIdLength
	}
	buffer := make([]byte, TxIdLength)
	if _, err := hex.Decode(buffer, s); err != nil {
		return err
	}
	copy(txId[:], buffer)
	return nil
}
