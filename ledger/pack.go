// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// maximum possible number of bytes in a packed varint64
const varint64MaximumBytes = 9

// canonical packing primitives
//
// packing only exists to give records and transactions a stable byte
// form to digest; there is no unpacker - the wire format between
// collaborating nodes is JSON

// convert a 64 bit unsigned integer to varint64 and append
func packUint64(buffer []byte, value uint64) []byte {
	if value < 0x80 {
		return append(buffer, byte(value))
	}
	for i := 0; i < varint64MaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		buffer = append(buffer, byte(value|ext))
		value >>= 7
	}
	return buffer
}

// append a length prefixed byte string
func packBytes(buffer []byte, data []byte) []byte {
	buffer = packUint64(buffer, uint64(len(data)))
	return append(buffer, data...)
}

// append a length prefixed utf-8 string
func packString(buffer []byte, s string) []byte {
	return packBytes(buffer, []byte(s))
}

// append an identity
func packParty(buffer []byte, p Party) []byte {
	buffer = packString(buffer, p.Name)
	return packBytes(buffer, p.PublicKey)
}

// append a list of identities
func packParties(buffer []byte, parties []Party) []byte {
	buffer = packUint64(buffer, uint64(len(parties)))
	for _, p := range parties {
		buffer = packParty(buffer, p)
	}
	return buffer
}

// append a record reference
func packRef(buffer []byte, ref StateRef) []byte {
	buffer = append(buffer, ref.TxId[:]...)
	return packUint64(buffer, uint64(ref.Index))
}

// append a list of record references
func packRefs(buffer []byte, refs []StateRef) []byte {
	buffer = packUint64(buffer, uint64(len(refs)))
	for _, ref := range refs {
		buffer = packRef(buffer, ref)
	}
	return buffer
}
