// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/fixtures"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type parties struct {
	network *ledger.Network

	issuer ledger.Party
	alice  ledger.Party
	bob    ledger.Party

	issuerNode *ledger.Node
	aliceNode  *ledger.Node
	bobNode    *ledger.Node
}

func newParties() *parties {
	p := &parties{
		network: ledger.NewNetwork(),
		issuer:  ledger.NewParty("issuer"),
		alice:   ledger.NewParty("alice"),
		bob:     ledger.NewParty("bob"),
	}
	p.issuerNode = p.network.Connect(p.issuer)
	p.aliceNode = p.network.Connect(p.alice)
	p.bobNode = p.network.Connect(p.bob)
	return p
}

// hand built acceptance: request then replacement plus active lock
func (p *parties) accept(t *testing.T, item ledger.AssetAndRef) (ledger.StateRef, ledger.StateRef) {
	request := ledger.NewReissuanceRequest(p.alice, p.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	requestTx := &ledger.Transaction{
		Outputs: []ledger.State{request},
		Command: ledger.CmdRequestReissue,
		Signers: []ledger.Party{p.alice},
	}
	requestTxId, err := p.aliceNode.Submit(requestTx)
	assert.Nil(t, err, "request error: %s", err)

	lock := ledger.NewReissuanceLock(p.alice, p.issuer, []ledger.StateRef{item.Ref})
	acceptTx := &ledger.Transaction{
		Consumes: []ledger.StateRef{{TxId: requestTxId, Index: 0}},
		Outputs:  []ledger.State{item.Asset.Duplicate(), lock},
		Command:  ledger.CmdAcceptReissue,
		Signers:  []ledger.Party{p.issuer},
	}
	acceptTxId, err := p.issuerNode.Submit(acceptTx)
	assert.Nil(t, err, "accept error: %s", err)

	replacementRef := ledger.StateRef{TxId: acceptTxId, Index: 0}
	lockRef := ledger.StateRef{TxId: acceptTxId, Index: 1}
	return replacementRef, lockRef
}

func TestDoubleSpendRejected(t *testing.T) {
	p := newParties()

	item, err := ledger.Issue(p.issuerNode, p.issuer, p.alice, "gold")
	assert.Nil(t, err, "issue error: %s", err)

	_, err = ledger.Transfer(p.aliceNode, item.Asset.Id, p.bob)
	assert.Nil(t, err, "transfer error: %s", err)

	// spend the already consumed reference a second time
	tx := &ledger.Transaction{
		Inputs:  []ledger.StateRef{item.Ref},
		Outputs: []ledger.State{item.Asset.WithNewOwner(p.bob)},
		Command: ledger.CmdTransfer,
		Signers: []ledger.Party{p.alice, p.bob},
	}
	_, err = p.aliceNode.Submit(tx)
	assert.Equal(t, fault.ErrStateAlreadyConsumed, err, "wrong error")
	assert.True(t, fault.IsErrConflict(err), "must be a conflict")
}

func TestEncumbranceRejected(t *testing.T) {
	p := newParties()

	item, err := ledger.Issue(p.issuerNode, p.issuer, p.alice, "gold")
	assert.Nil(t, err, "issue error: %s", err)

	replacementRef, _ := p.accept(t, item)

	// a locked replacement cannot move on its own
	tx := &ledger.Transaction{
		Inputs:  []ledger.StateRef{replacementRef},
		Outputs: []ledger.State{item.Asset.WithNewOwner(p.bob)},
		Command: ledger.CmdTransfer,
		Signers: []ledger.Party{p.alice, p.bob},
	}
	_, err = p.aliceNode.Submit(tx)
	assert.Equal(t, fault.ErrRecordEncumbered, err, "wrong error")

	// the original remains spendable while the lock is active
	moved, err := ledger.Transfer(p.aliceNode, item.Asset.Id, p.bob)
	assert.Nil(t, err, "transfer error: %s", err)
	assert.True(t, moved.Asset.OwnerId.Equal(p.bob), "wrong owner")
}

func TestUnlockNeedsExitEvidence(t *testing.T) {
	p := newParties()

	item, err := ledger.Issue(p.issuerNode, p.issuer, p.alice, "gold")
	assert.Nil(t, err, "issue error: %s", err)

	replacementRef, lockRef := p.accept(t, item)

	lock := p.aliceNode.QueryLocks()[0].Lock

	// the original was never exited, the unlock must fail
	tx := &ledger.Transaction{
		Consumes: []ledger.StateRef{replacementRef, lockRef},
		Outputs: []ledger.State{
			item.Asset.Duplicate(),
			lock.WithStatus(ledger.LockInactive),
		},
		Command: ledger.CmdUnlock,
		Signers: []ledger.Party{p.alice},
	}
	_, err = p.aliceNode.Submit(tx)
	assert.Equal(t, fault.ErrIncorrectEvidence, err, "wrong error")

	// exit with the issuer's signature, then unlock with the evidence
	exitTxId, err := ledger.Exit(p.aliceNode, item.Ref)
	assert.Nil(t, err, "exit error: %s", err)

	tx.Evidence = []ledger.TxId{exitTxId}
	_, err = p.aliceNode.Submit(tx)
	assert.Nil(t, err, "unlock error: %s", err)
}

func TestVisibilityFollowsParticipation(t *testing.T) {
	p := newParties()

	item, err := ledger.Issue(p.issuerNode, p.issuer, p.alice, "gold")
	assert.Nil(t, err, "issue error: %s", err)

	// a stranger to the record sees nothing
	assert.Equal(t, 0, len(p.bobNode.QueryAssets(nil)), "bob must not see the record")
	assert.Equal(t, 1, len(p.aliceNode.QueryAssets(nil)), "alice must see the record")

	moved, err := ledger.Transfer(p.aliceNode, item.Asset.Id, p.bob)
	assert.Nil(t, err, "transfer error: %s", err)

	// the issuer was no party to the transfer, its store lacks it
	_, err = p.issuerNode.GetTransaction(moved.Ref.TxId)
	assert.Equal(t, fault.ErrTransactionNotFound, err, "wrong error")

	// delivery by courier repairs the gap
	tx, err := p.aliceNode.GetTransaction(moved.Ref.TxId)
	assert.Nil(t, err, "get transaction error: %s", err)
	p.issuerNode.ReceiveTransactions([]*ledger.Transaction{tx})

	_, err = p.issuerNode.GetTransaction(moved.Ref.TxId)
	assert.Nil(t, err, "transaction must be available after delivery: %s", err)
}

func TestRequestSubscription(t *testing.T) {
	p := newParties()

	item, err := ledger.Issue(p.issuerNode, p.issuer, p.alice, "gold")
	assert.Nil(t, err, "issue error: %s", err)

	incoming := p.issuerNode.SubscribeRequests()
	strangers := p.bobNode.SubscribeRequests()

	request := ledger.NewReissuanceRequest(p.alice, p.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	_, err = p.aliceNode.Submit(&ledger.Transaction{
		Outputs: []ledger.State{request},
		Command: ledger.CmdRequestReissue,
		Signers: []ledger.Party{p.alice},
	})
	assert.Nil(t, err, "request error: %s", err)

	select {
	case received := <-incoming:
		assert.Equal(t, request.Id, received.Request.Id, "wrong request delivered")
	case <-time.After(time.Second):
		t.Fatal("issuer subscription timed out")
	}

	select {
	case <-strangers:
		t.Fatal("request leaked to a non participant")
	case <-time.After(50 * time.Millisecond):
	}
}
