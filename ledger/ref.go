// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/mr-tron/base58"
)

// StateRef - reference to a single output of a committed transaction
type StateRef struct {
	TxId  TxId `json:"txId"`
	Index int  `json:"index"`
}

// Equal - compare two references
func (ref StateRef) Equal(other StateRef) bool {
	return ref.TxId == other.TxId && ref.Index == other.Index
}

// String - compact base58 form for logs
func (ref StateRef) String() string {
	buffer := make([]byte, 0, TxIdLength+varint64MaximumBytes)
	buffer = append(buffer, ref.TxId[:]...)
	buffer = packUint64(buffer, uint64(ref.Index))
	return base58.Encode(buffer)
}

// refSetEqual - set equality over two reference lists
func refSetEqual(a []StateRef, b []StateRef) bool {
	if len(a) != len(b) {
		return false
	}
outer:
	for _, ra := range a {
		for _, rb := range b {
			if ra.Equal(rb) {
				continue outer
			}
		}
		return false
	}
	return true
}

// refListContains - membership check
func refListContains(list []StateRef, ref StateRef) bool {
	for _, r := range list {
		if r.Equal(ref) {
			return true
		}
	}
	return false
}
