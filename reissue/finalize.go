// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reissue

import (
	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Outcome - how a finalisation ended
type Outcome int

const (
	OutcomeNone    Outcome = iota
	OutcomeUnlocked        // originals exited, replacements released
	OutcomeAborted         // a raced original forced the abort path
)

// String - convert an outcome to its string form
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeUnlocked:
		return "unlocked"
	case OutcomeAborted:
		return "aborted"
	default:
		logger.Panicf("invalid outcome enumeration: %d", outcome)
		return ""
	}
}

// Finalize - requester side: exit the originals then unlock the replacements
//
// two phases: every original covered by the lock is retired by an exit
// transaction, then one unlock transaction consumes the lock and the
// encumbered replacements with the exit transaction ids as evidence
//
// if an original was consumed by anything other than an exit the
// unlock cannot validate; that conflict is recovered locally through
// the abort path and reported as OutcomeAborted, never surfaced as an
// unhandled failure
func Finalize(client ledger.Client, item ledger.LockAndRef) (Outcome, ledger.TxId, error) {

	requester := client.Identity()
	lock := item.Lock

	if !lock.Requester.Equal(requester) {
		return OutcomeNone, ledger.TxId{}, fault.ErrNotOwner
	}
	if ledger.LockActive != lock.Status {
		return OutcomeNone, ledger.TxId{}, fault.ErrLockNotActive
	}

	replacementRefs, replacements, err := encumberedReplacements(client, item)
	if nil != err {
		return OutcomeNone, ledger.TxId{}, err
	}

	// phase one: retire every original, collecting evidence
	exitIds := make([]ledger.TxId, 0, len(lock.Originals))
	for _, ref := range lock.Originals {
		txId, err := ledger.Exit(client, ref)
		if nil != err {
			if fault.IsErrConflict(err) || fault.IsErrInvalid(err) {
				// a normal transfer raced ahead of the automation
				txId, abortErr := Abort(client, item)
				if nil != abortErr {
					return OutcomeNone, ledger.TxId{}, abortErr
				}
				return OutcomeAborted, txId, nil
			}
			return OutcomeNone, ledger.TxId{}, err
		}
		exitIds = append(exitIds, txId)
	}

	// phase two: release lock and replacements together
	outputs := make([]ledger.State, 0, len(replacements)+1)
	for _, asset := range replacements {
		outputs = append(outputs, asset.Duplicate())
	}
	outputs = append(outputs, lock.WithStatus(ledger.LockInactive))

	tx := &ledger.Transaction{
		Consumes: append(append([]ledger.StateRef{}, replacementRefs...), item.Ref),
		Outputs:  outputs,
		Command:  ledger.CmdUnlock,
		Signers:  []ledger.Party{requester},
		Evidence: exitIds,
	}
	txId, err := client.Submit(tx)
	if nil != err {
		if fault.IsErrConflict(err) || fault.IsErrInvalid(err) {
			txId, abortErr := Abort(client, item)
			if nil != abortErr {
				return OutcomeNone, ledger.TxId{}, abortErr
			}
			return OutcomeAborted, txId, nil
		}
		return OutcomeNone, ledger.TxId{}, err
	}
	return OutcomeUnlocked, txId, nil
}

// the replacements co-created with the lock, from its producing transaction
func encumberedReplacements(client ledger.Client, item ledger.LockAndRef) ([]ledger.StateRef, []*ledger.AssetRecord, error) {
	tx, err := client.GetTransaction(item.Ref.TxId)
	if nil != err {
		return nil, nil, err
	}

	refs := []ledger.StateRef{}
	assets := []*ledger.AssetRecord{}
	for i, out := range tx.Outputs {
		if asset, ok := out.(*ledger.AssetRecord); ok {
			refs = append(refs, ledger.StateRef{TxId: item.Ref.TxId, Index: i})
			assets = append(assets, asset)
		}
	}
	if 0 == len(assets) {
		return nil, nil, fault.ErrLockNotFound
	}
	return refs, assets, nil
}
