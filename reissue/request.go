// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reissue

import (
	"github.com/thorgilman/corda-reissuance-automation/backchain"
	"github.com/thorgilman/corda-reissuance-automation/courier"
	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Request - ask the issuer to reissue the records at the given references
//
// the full backchain is transmitted before the request record is
// created: the issuer's acceptance re-validates the chain and must
// already hold the evidence; a transmission failure therefore aborts
// with no partial ledger state
//
// idempotent over the same reference set: an unconsumed request or an
// active lock already covering the set suppresses the new request
func Request(client ledger.Client, send courier.Courier, issuer ledger.Party, originals []ledger.StateRef, issuanceCommand ledger.Command) (ledger.TxId, error) {

	requester := client.Identity()

	// requester must currently hold every original
	for _, ref := range originals {
		asset, err := ledger.ResolveAsset(client, ref)
		if nil != err {
			return ledger.TxId{}, err
		}
		if !asset.OwnerId.Equal(requester) {
			return ledger.TxId{}, fault.ErrNotOwner
		}
	}

	// read before write: suppress a second in-flight instance
	for _, r := range client.QueryRequests() {
		if r.Request.Requester.Equal(requester) && r.Request.Covers(originals) {
			return ledger.TxId{}, fault.ErrReissuancePending
		}
	}
	for _, l := range client.QueryLocks() {
		if ledger.LockActive == l.Lock.Status && l.Lock.Requester.Equal(requester) && l.Lock.Covers(originals) {
			return ledger.TxId{}, fault.ErrReissuancePending
		}
	}

	// gather the evidentiary backchain of every original
	seen := make(map[ledger.TxId]struct{})
	evidence := []*ledger.Transaction{}
	for _, ref := range originals {
		txs, err := backchain.Collect(client, ref)
		if nil != err {
			return ledger.TxId{}, err
		}
		for _, tx := range txs {
			txId := tx.Id()
			if _, ok := seen[txId]; ok {
				continue
			}
			seen[txId] = struct{}{}
			evidence = append(evidence, tx)
		}
	}

	// share first; only then create the request record
	if err := send.Send(issuer, evidence); nil != err {
		return ledger.TxId{}, fault.ErrBackchainShareFailed
	}

	request := ledger.NewReissuanceRequest(requester, issuer, originals, issuanceCommand)
	tx := &ledger.Transaction{
		Outputs: []ledger.State{request},
		Command: ledger.CmdRequestReissue,
		Signers: []ledger.Party{requester},
	}
	return client.Submit(tx)
}
