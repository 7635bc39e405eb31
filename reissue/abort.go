// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reissue

import (
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Abort - delete an active lock and its still encumbered replacements
//
// the unhappy path safety valve: consumes the lock and the replacements
// with no outputs, leaving the requester free to re-run the whole
// protocol from a clean state
//
// running it twice is a no-op error, not a corruption: the second
// attempt fails because the lock reference is already consumed and
// nothing is released twice
func Abort(client ledger.Client, item ledger.LockAndRef) (ledger.TxId, error) {

	replacementRefs, _, err := encumberedReplacements(client, item)
	if nil != err {
		return ledger.TxId{}, err
	}

	tx := &ledger.Transaction{
		Consumes: append(append([]ledger.StateRef{}, replacementRefs...), item.Ref),
		Command:  ledger.CmdDeleteLock,
		Signers:  []ledger.Party{item.Lock.Requester},
	}
	return client.Submit(tx)
}
