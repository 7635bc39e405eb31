// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// AssetAndRef - an unconsumed asset record and its reference
type AssetAndRef struct {
	Ref   StateRef
	Asset *AssetRecord
}

// RequestAndRef - an unconsumed reissuance request and its reference
type RequestAndRef struct {
	Ref     StateRef
	Request *ReissuanceRequest
}

// LockAndRef - an unconsumed reissuance lock and its reference
type LockAndRef struct {
	Ref  StateRef
	Lock *ReissuanceLock
}

// Client - the contract the external ledger engine is reached through
//
// queries return only records visible to this client's identity;
// GetTransaction reads this node's local transaction store, so a miss
// is a data availability fault, not proof of absence
type Client interface {

	// the identity this client acts as
	Identity() Party

	// current unconsumed asset records, optionally filtered by owner
	QueryAssets(owner *Party) []AssetAndRef

	// locate the current version of an asset by its stable identity
	QueryAssetById(id UniqueId) (AssetAndRef, error)

	// current unconsumed reissuance requests
	QueryRequests() []RequestAndRef

	// current unconsumed reissuance locks
	QueryLocks() []LockAndRef

	// fetch a committed transaction from the local store
	GetTransaction(txId TxId) (*Transaction, error)

	// sign, notarise and commit one transaction atomically
	Submit(tx *Transaction) (TxId, error)

	// stream of newly produced reissuance requests
	SubscribeRequests() <-chan RequestAndRef

	// stream of newly produced reissuance locks
	SubscribeLocks() <-chan LockAndRef
}
