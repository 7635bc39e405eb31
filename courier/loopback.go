// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package courier

import (
	"sync"

	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// Loopback - in-process delivery between nodes sharing one process
//
// used by tests and the simulation command; an unregistered
// destination behaves like an unreachable counterparty
type Loopback struct {
	sync.RWMutex
	receivers map[string]Receiver
}

// NewLoopback - create an empty in-process courier
func NewLoopback() *Loopback {
	return &Loopback{
		receivers: make(map[string]Receiver),
	}
}

// Register - attach a party's receiving end
func (l *Loopback) Register(party ledger.Party, receiver Receiver) {
	l.Lock()
	defer l.Unlock()

	l.receivers[party.Name] = receiver
}

// Send - deliver transactions to the named party
func (l *Loopback) Send(to ledger.Party, txs []*ledger.Transaction) error {
	l.RLock()
	receiver, ok := l.receivers[to.Name]
	l.RUnlock()

	if !ok {
		return fault.ErrCounterpartyUnreachable
	}
	receiver.ReceiveTransactions(txs)
	return nil
}
