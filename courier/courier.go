// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package courier

import (
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Courier - transmit transactions to a counterparty
//
// the requester uses this to hand the full evidentiary backchain to
// the issuer before any request record is created; failure must leave
// no partial ledger state, so a Courier only ever moves data, never
// writes records
type Courier interface {
	Send(to ledger.Party, txs []*ledger.Transaction) error
}

// Receiver - the counterparty end of a transmission
type Receiver interface {
	ReceiveTransactions(txs []*ledger.Transaction)
}
