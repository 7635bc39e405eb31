// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// single step operations: ordinary ledger writes with no multi step
// coordination; the reissuance protocol builds on these

// Issue - mint a new asset record
func Issue(client Client, issuer Party, owner Party, payload string) (AssetAndRef, error) {
	asset := NewAssetRecord(payload, issuer, owner)
	tx := &Transaction{
		Outputs: []State{asset},
		Command: CmdIssue,
		Signers: []Party{issuer, owner},
	}
	txId, err := client.Submit(tx)
	if nil != err {
		return AssetAndRef{}, err
	}
	return AssetAndRef{
		Ref:   StateRef{TxId: txId, Index: 0},
		Asset: asset,
	}, nil
}

// Transfer - move ownership of the asset with the given identity
func Transfer(client Client, id UniqueId, newOwner Party) (AssetAndRef, error) {
	current, err := client.QueryAssetById(id)
	if nil != err {
		return AssetAndRef{}, err
	}
	next := current.Asset.WithNewOwner(newOwner)
	tx := &Transaction{
		Inputs:  []StateRef{current.Ref},
		Outputs: []State{next},
		Command: CmdTransfer,
		Signers: []Party{current.Asset.OwnerId, newOwner},
	}
	txId, err := client.Submit(tx)
	if nil != err {
		return AssetAndRef{}, err
	}
	return AssetAndRef{
		Ref:   StateRef{TxId: txId, Index: 0},
		Asset: next,
	}, nil
}

// Exit - retire the record at ref with no replacement
func Exit(client Client, ref StateRef) (TxId, error) {
	asset, err := ResolveAsset(client, ref)
	if nil != err {
		return TxId{}, err
	}
	tx := &Transaction{
		Inputs:  []StateRef{ref},
		Command: CmdExit,
		Signers: []Party{asset.OwnerId, asset.IssuerId},
	}
	return client.Submit(tx)
}

// ResolveAsset - recover the asset record a reference points at
// from this node's transaction store
func ResolveAsset(client Client, ref StateRef) (*AssetRecord, error) {
	tx, err := client.GetTransaction(ref.TxId)
	if nil != err {
		return nil, err
	}
	if ref.Index < 0 || ref.Index >= len(tx.Outputs) {
		return nil, fault.ErrStateNotFound
	}
	asset, ok := tx.Outputs[ref.Index].(*AssetRecord)
	if !ok {
		return nil, fault.ErrAssetNotFound
	}
	return asset, nil
}
