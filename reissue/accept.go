// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reissue

import (
	"github.com/thorgilman/corda-reissuance-automation/backchain"
	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Accept - issuer side: consume the request and mint the replacements
//
// validates the originals against the shared backchain, then submits
// one atomic transaction producing content-identical zero-history
// replacements plus an ACTIVE lock binding them to the originals;
// rejection creates nothing
func Accept(client ledger.Client, item ledger.RequestAndRef) (ledger.TxId, error) {

	issuer := client.Identity()
	request := item.Request

	if !request.IssuerId.Equal(issuer) {
		return ledger.TxId{}, fault.ErrIssuerMismatch
	}

	outputs := make([]ledger.State, 0, len(request.Originals)+1)
	for _, ref := range request.Originals {

		// the requester must have shared the chain already;
		// a miss here is a data availability fault to retry later
		original, err := ledger.ResolveAsset(client, ref)
		if nil != err {
			return ledger.TxId{}, err
		}
		if !original.IssuerId.Equal(issuer) {
			return ledger.TxId{}, fault.ErrIssuerMismatch
		}
		found := false
		for _, p := range original.Participants() {
			if p.Equal(request.Requester) {
				found = true
				break
			}
		}
		if !found {
			return ledger.TxId{}, fault.ErrRequesterNotParticipant
		}

		// re-validate the chain end to end from the shared evidence
		if _, err := backchain.Length(client, ref); nil != err {
			return ledger.TxId{}, err
		}

		outputs = append(outputs, original.Duplicate())
	}

	lock := ledger.NewReissuanceLock(request.Requester, issuer, request.Originals)
	outputs = append(outputs, lock)

	tx := &ledger.Transaction{
		Consumes: []ledger.StateRef{item.Ref},
		Outputs:  outputs,
		Command:  ledger.CmdAcceptReissue,
		Signers:  []ledger.Party{issuer},
	}
	return client.Submit(tx)
}
