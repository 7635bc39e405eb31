// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package backchain

import (
	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Length - number of transaction hops from a record's producing
// transaction back to its issuance
//
// walks producing transaction to first input's producing transaction;
// a missing transaction is a local data availability fault
// (fault.ErrTransactionNotFound), not a protocol violation
//
// read only, safe for concurrent calls
func Length(client ledger.Client, ref ledger.StateRef) (int, error) {
	tx, err := client.GetTransaction(ref.TxId)
	if nil != err {
		return 0, err
	}

	count := 0
	for len(tx.Inputs) > 0 {
		tx, err = client.GetTransaction(tx.Inputs[0].TxId)
		if nil != err {
			return 0, fault.ErrChainTransactionNotFound
		}
		count += 1
	}
	return count, nil
}

// Collect - every transaction reachable by walking inputs from ref
//
// this is the full evidentiary backchain a requester must share with
// the issuer before asking for reissuance; the producing transaction
// comes first, duplicates are removed
func Collect(client ledger.Client, ref ledger.StateRef) ([]*ledger.Transaction, error) {
	seen := make(map[ledger.TxId]struct{})
	result := []*ledger.Transaction{}

	pending := []ledger.TxId{ref.TxId}
	for len(pending) > 0 {
		txId := pending[0]
		pending = pending[1:]

		if _, ok := seen[txId]; ok {
			continue
		}
		seen[txId] = struct{}{}

		tx, err := client.GetTransaction(txId)
		if nil != err {
			if txId != ref.TxId {
				err = fault.ErrChainTransactionNotFound
			}
			return nil, err
		}
		result = append(result, tx)

		for _, input := range tx.Inputs {
			pending = append(pending, input.TxId)
		}
	}
	return result, nil
}
