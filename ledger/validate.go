// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// contract rules applied by the reference engine before commit
//
// a failed rule creates nothing: validation happens before any
// consumption or production is recorded

type resolved struct {
	ref   StateRef
	state State
}

// validate - structural and protocol rules for one transaction
// caller must hold the network write lock
func (n *Network) validate(tx *Transaction) error {

	inputs := make([]resolved, len(tx.Inputs))
	for i, ref := range tx.Inputs {
		state, err := n.resolve(ref)
		if nil != err {
			return err
		}
		inputs[i] = resolved{ref: ref, state: state}
	}

	consumes := make([]resolved, len(tx.Consumes))
	for i, ref := range tx.Consumes {
		state, err := n.resolve(ref)
		if nil != err {
			return err
		}
		consumes[i] = resolved{ref: ref, state: state}
	}

	// encumbrance: a locked replacement can only move together with its lock
	for _, r := range append(append([]resolved{}, inputs...), consumes...) {
		if lockRef, ok := n.lockPair[r.ref.String()]; ok {
			if !refListContains(tx.Consumes, lockRef) {
				return fault.ErrRecordEncumbered
			}
		}
	}

	switch tx.Command {

	case CmdIssue:
		if 0 != len(inputs) || 0 != len(consumes) || 1 != len(tx.Outputs) {
			return fault.ErrInvalidTransaction
		}
		asset, ok := tx.Outputs[0].(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		if !tx.SignedBy(asset.IssuerId) || !tx.SignedBy(asset.OwnerId) {
			return fault.ErrMissingSigner
		}

	case CmdTransfer:
		if 1 != len(inputs) || 0 != len(consumes) || 1 != len(tx.Outputs) {
			return fault.ErrInvalidTransaction
		}
		from, ok := inputs[0].state.(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		to, ok := tx.Outputs[0].(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		if to.Id != from.Id || to.Payload != from.Payload || !to.IssuerId.Equal(from.IssuerId) {
			return fault.ErrInvalidTransaction
		}
		if !tx.SignedBy(from.OwnerId) || !tx.SignedBy(to.OwnerId) {
			return fault.ErrMissingSigner
		}

	case CmdExit:
		if 1 != len(inputs) || 0 != len(consumes) || 0 != len(tx.Outputs) {
			return fault.ErrInvalidTransaction
		}
		asset, ok := inputs[0].state.(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		if !tx.SignedBy(asset.OwnerId) || !tx.SignedBy(asset.IssuerId) {
			return fault.ErrMissingSigner
		}

	case CmdRequestReissue:
		if 0 != len(inputs) || 0 != len(consumes) || 1 != len(tx.Outputs) {
			return fault.ErrInvalidTransaction
		}
		request, ok := tx.Outputs[0].(*ReissuanceRequest)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		if !tx.SignedBy(request.Requester) {
			return fault.ErrMissingSigner
		}

	case CmdAcceptReissue:
		return n.validateAccept(tx, inputs, consumes)

	case CmdUnlock:
		return n.validateUnlock(tx, inputs, consumes)

	case CmdDeleteLock:
		return n.validateDeleteLock(tx, inputs, consumes)

	default:
		return fault.ErrInvalidCommand
	}

	return nil
}

// acceptance: consume the request, mint content-identical replacements
// plus one active lock in a single transaction
func (n *Network) validateAccept(tx *Transaction, inputs []resolved, consumes []resolved) error {
	if 0 != len(inputs) || 1 != len(consumes) {
		return fault.ErrInvalidTransaction
	}
	request, ok := consumes[0].state.(*ReissuanceRequest)
	if !ok {
		return fault.ErrInvalidTransaction
	}
	if len(tx.Outputs) != len(request.Originals)+1 {
		return fault.ErrInvalidTransaction
	}
	lock, ok := tx.Outputs[len(tx.Outputs)-1].(*ReissuanceLock)
	if !ok || LockActive != lock.Status {
		return fault.ErrInvalidTransaction
	}
	if !lock.Requester.Equal(request.Requester) || !lock.IssuerId.Equal(request.IssuerId) {
		return fault.ErrInvalidTransaction
	}
	if !lock.Covers(request.Originals) {
		return fault.ErrInvalidTransaction
	}
	if !tx.SignedBy(request.IssuerId) {
		return fault.ErrMissingSigner
	}

	replacements := make(map[UniqueId]*AssetRecord)
	for _, out := range tx.Outputs[:len(tx.Outputs)-1] {
		asset, ok := out.(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		replacements[asset.Id] = asset
	}

	for _, ref := range request.Originals {
		state, err := n.resolve(ref)
		if nil != err {
			return err // already consumed or unknown, nothing is created
		}
		original, ok := state.(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		if !partiesContain(original.Participants(), request.Requester) {
			return fault.ErrRequesterNotParticipant
		}
		if !original.IssuerId.Equal(request.IssuerId) {
			return fault.ErrIssuerMismatch
		}
		replacement, ok := replacements[original.Id]
		if !ok || !replacement.ContentEquals(original) {
			return fault.ErrReplacementContentMismatch
		}
	}
	return nil
}

// unlock: every original must have been retired by an exit transaction
// listed as evidence, then lock and replacements are released together
func (n *Network) validateUnlock(tx *Transaction, inputs []resolved, consumes []resolved) error {
	if 0 != len(inputs) {
		return fault.ErrInvalidTransaction
	}
	lock, replacements, err := splitLockAndReplacements(consumes)
	if nil != err {
		return err
	}
	if LockActive != lock.Status {
		return fault.ErrLockNotActive
	}
	if !tx.SignedBy(lock.Requester) {
		return fault.ErrMissingSigner
	}
	if len(tx.Outputs) != len(replacements)+1 {
		return fault.ErrInvalidTransaction
	}
	if err := n.checkPairing(consumes); nil != err {
		return err
	}

	outLock, ok := tx.Outputs[len(tx.Outputs)-1].(*ReissuanceLock)
	if !ok || LockInactive != outLock.Status || outLock.Id != lock.Id ||
		!outLock.Requester.Equal(lock.Requester) || !outLock.Covers(lock.Originals) {
		return fault.ErrInvalidTransaction
	}

	released := make(map[UniqueId]*AssetRecord)
	for _, out := range tx.Outputs[:len(tx.Outputs)-1] {
		asset, ok := out.(*AssetRecord)
		if !ok {
			return fault.ErrInvalidTransaction
		}
		released[asset.Id] = asset
	}
	for _, replacement := range replacements {
		out, ok := released[replacement.Id]
		if !ok || !out.ContentEquals(replacement) {
			return fault.ErrInvalidTransaction
		}
	}

	// the ordering invariant: each original was consumed by an exit
	// transaction and that exact transaction is listed as evidence
	for _, ref := range lock.Originals {
		c, ok := n.consumed[ref.String()]
		if !ok || CmdExit != c.command || !tx.EvidenceContains(c.txId) {
			return fault.ErrIncorrectEvidence
		}
	}
	return nil
}

// abort: delete the active lock and the still encumbered replacements,
// releasing nothing
func (n *Network) validateDeleteLock(tx *Transaction, inputs []resolved, consumes []resolved) error {
	if 0 != len(inputs) || 0 != len(tx.Outputs) {
		return fault.ErrInvalidTransaction
	}
	lock, _, err := splitLockAndReplacements(consumes)
	if nil != err {
		return err
	}
	if LockActive != lock.Status {
		return fault.ErrLockNotActive
	}
	if !tx.SignedBy(lock.Requester) {
		return fault.ErrMissingSigner
	}
	return n.checkPairing(consumes)
}

// every consumed replacement must be encumbered by the consumed lock
func (n *Network) checkPairing(consumes []resolved) error {
	var lockRef StateRef
	for _, r := range consumes {
		if _, ok := r.state.(*ReissuanceLock); ok {
			lockRef = r.ref
		}
	}
	for _, r := range consumes {
		if _, ok := r.state.(*AssetRecord); !ok {
			continue
		}
		paired, ok := n.lockPair[r.ref.String()]
		if !ok || !paired.Equal(lockRef) {
			return fault.ErrRecordEncumbered
		}
	}
	return nil
}

// exactly one lock plus at least one encumbered replacement
func splitLockAndReplacements(consumes []resolved) (*ReissuanceLock, []*AssetRecord, error) {
	var lock *ReissuanceLock
	replacements := []*AssetRecord{}
	for _, r := range consumes {
		switch state := r.state.(type) {
		case *ReissuanceLock:
			if nil != lock {
				return nil, nil, fault.ErrInvalidTransaction
			}
			lock = state
		case *AssetRecord:
			replacements = append(replacements, state)
		default:
			return nil, nil, fault.ErrInvalidTransaction
		}
	}
	if nil == lock || 0 == len(replacements) {
		return nil, nil, fault.ErrInvalidTransaction
	}
	return lock, replacements, nil
}

func partiesContain(parties []Party, party Party) bool {
	for _, p := range parties {
		if p.Equal(party) {
			return true
		}
	}
	return false
}
