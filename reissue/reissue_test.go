// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reissue_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thorgilman/corda-reissuance-automation/backchain"
	"github.com/thorgilman/corda-reissuance-automation/courier"
	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/fixtures"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
	"github.com/thorgilman/corda-reissuance-automation/reissue"
)

func TestMain(m *testing.M) {
	fixtures.SetupTestLogger()
	rc := m.Run()
	fixtures.TeardownTestLogger()
	os.Exit(rc)
}

type scenario struct {
	network *ledger.Network
	send    *courier.Loopback

	issuer ledger.Party
	alice  ledger.Party
	bob    ledger.Party

	issuerNode *ledger.Node
	aliceNode  *ledger.Node
	bobNode    *ledger.Node
}

func newScenario() *scenario {
	s := &scenario{
		network: ledger.NewNetwork(),
		send:    courier.NewLoopback(),
		issuer:  ledger.NewParty("issuer"),
		alice:   ledger.NewParty("alice"),
		bob:     ledger.NewParty("bob"),
	}
	s.issuerNode = s.network.Connect(s.issuer)
	s.aliceNode = s.network.Connect(s.alice)
	s.bobNode = s.network.Connect(s.bob)
	s.send.Register(s.issuer, s.issuerNode)
	s.send.Register(s.alice, s.aliceNode)
	s.send.Register(s.bob, s.bobNode)
	return s
}

// issue to alice then bounce the asset alice -> bob -> alice, one
// transfer per hop; an even hop count ends owned by alice
func (s *scenario) chain(t *testing.T, payload string, hops int) ledger.AssetAndRef {
	current, err := ledger.Issue(s.issuerNode, s.issuer, s.alice, payload)
	assert.Nil(t, err, "issue error: %s", err)

	for i := 0; i < hops; i += 1 {
		to := s.bob
		via := s.aliceNode
		if 1 == i%2 {
			to = s.alice
			via = s.bobNode
		}
		current, err = ledger.Transfer(via, current.Asset.Id, to)
		assert.Nil(t, err, "transfer %d error: %s", i, err)
	}
	return current
}

func TestAcceptMintsZeroHistoryReplacement(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "gold", 4)

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.Nil(t, err, "request error: %s", err)

	requests := s.issuerNode.QueryRequests()
	assert.Equal(t, 1, len(requests), "wrong request count")

	_, err = reissue.Accept(s.issuerNode, requests[0])
	assert.Nil(t, err, "accept error: %s", err)

	locks := s.aliceNode.QueryLocks()
	assert.Equal(t, 1, len(locks), "wrong lock count")
	assert.Equal(t, ledger.LockActive, locks[0].Lock.Status, "wrong lock status")

	// the replacement co-created with the lock
	tx, err := s.aliceNode.GetTransaction(locks[0].Ref.TxId)
	assert.Nil(t, err, "get transaction error: %s", err)

	var replacement *ledger.AssetRecord
	var replacementRef ledger.StateRef
	for i, out := range tx.Outputs {
		if asset, ok := out.(*ledger.AssetRecord); ok {
			replacement = asset
			replacementRef = tx.OutputRef(i)
		}
	}
	assert.NotNil(t, replacement, "missing replacement record")
	assert.True(t, replacement.ContentEquals(item.Asset), "replacement content mismatch")
	assert.True(t, replacement.OwnerId.Equal(s.alice), "wrong replacement owner")

	length, err := backchain.Length(s.aliceNode, replacementRef)
	assert.Nil(t, err, "length error: %s", err)
	assert.Equal(t, 0, length, "replacement must have empty history")

	// while the lock is active the replacement stays hidden and the
	// original remains the usable version
	current, err := s.aliceNode.QueryAssetById(item.Asset.Id)
	assert.Nil(t, err, "query error: %s", err)
	assert.Equal(t, item.Ref, current.Ref, "expected original to stay current")
}

func TestRequestRejectsNonOwner(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "silver", 1) // ends owned by bob

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.Equal(t, fault.ErrNotOwner, err, "wrong error")
	assert.Equal(t, 0, len(s.issuerNode.QueryRequests()), "request must not be created")
}

func TestRequestDeduplication(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "tin", 2)
	originals := []ledger.StateRef{item.Ref}

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, originals, ledger.CmdIssue)
	assert.Nil(t, err, "request error: %s", err)

	// pending request suppresses a duplicate
	_, err = reissue.Request(s.aliceNode, s.send, s.issuer, originals, ledger.CmdIssue)
	assert.Equal(t, fault.ErrReissuancePending, err, "wrong error")

	_, err = reissue.Accept(s.issuerNode, s.issuerNode.QueryRequests()[0])
	assert.Nil(t, err, "accept error: %s", err)

	// active lock suppresses a duplicate just the same
	_, err = reissue.Request(s.aliceNode, s.send, s.issuer, originals, ledger.CmdIssue)
	assert.Equal(t, fault.ErrReissuancePending, err, "wrong error")
}

func TestRequestUnreachableIssuer(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "zinc", 2)

	empty := courier.NewLoopback()
	_, err := reissue.Request(s.aliceNode, empty, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.True(t, fault.IsErrUnreachable(err), "wrong error: %s", err)

	// share-first ordering: no request record without delivered evidence
	assert.Equal(t, 0, len(s.aliceNode.QueryRequests()), "request must not be created")
}

func TestAcceptRejectsForeignIssuer(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "lead", 2)

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.Nil(t, err, "request error: %s", err)

	_, err = reissue.Accept(s.bobNode, s.issuerNode.QueryRequests()[0])
	assert.Equal(t, fault.ErrIssuerMismatch, err, "wrong error")
}

func TestFinalizeUnlocksAndPreservesContent(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "platinum", 4)

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.Nil(t, err, "request error: %s", err)
	_, err = reissue.Accept(s.issuerNode, s.issuerNode.QueryRequests()[0])
	assert.Nil(t, err, "accept error: %s", err)

	outcome, _, err := reissue.Finalize(s.aliceNode, s.aliceNode.QueryLocks()[0])
	assert.Nil(t, err, "finalize error: %s", err)
	assert.Equal(t, reissue.OutcomeUnlocked, outcome, "wrong outcome")

	// exactly one usable record: the released replacement
	held := s.aliceNode.QueryAssets(&s.alice)
	assert.Equal(t, 1, len(held), "wrong asset count")
	assert.True(t, held[0].Asset.ContentEquals(item.Asset), "content mismatch")

	length, err := backchain.Length(s.aliceNode, held[0].Ref)
	assert.Nil(t, err, "length error: %s", err)
	assert.Equal(t, 0, length, "released replacement must have empty history")

	locks := s.aliceNode.QueryLocks()
	assert.Equal(t, 1, len(locks), "wrong lock count")
	assert.Equal(t, ledger.LockInactive, locks[0].Lock.Status, "wrong lock status")
	assert.True(t, locks[0].Lock.Covers([]ledger.StateRef{item.Ref}), "lock must still name the originals")
}

func TestAbortIdempotent(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "copper", 2)

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.Nil(t, err, "request error: %s", err)
	_, err = reissue.Accept(s.issuerNode, s.issuerNode.QueryRequests()[0])
	assert.Nil(t, err, "accept error: %s", err)

	lock := s.aliceNode.QueryLocks()[0]
	_, err = reissue.Abort(s.aliceNode, lock)
	assert.Nil(t, err, "abort error: %s", err)

	// second run fails cleanly and releases nothing twice
	_, err = reissue.Abort(s.aliceNode, lock)
	assert.True(t, fault.IsErrConflict(err), "wrong error: %s", err)

	assert.Equal(t, 0, len(s.aliceNode.QueryLocks()), "lock must be gone")
	held := s.aliceNode.QueryAssets(&s.alice)
	assert.Equal(t, 1, len(held), "wrong asset count")
	assert.Equal(t, item.Ref, held[0].Ref, "original must survive the abort")
}

func TestFinalizeAbortsWhenOriginalRaced(t *testing.T) {
	s := newScenario()
	item := s.chain(t, "nickel", 2)

	_, err := reissue.Request(s.aliceNode, s.send, s.issuer, []ledger.StateRef{item.Ref}, ledger.CmdIssue)
	assert.Nil(t, err, "request error: %s", err)
	_, err = reissue.Accept(s.issuerNode, s.issuerNode.QueryRequests()[0])
	assert.Nil(t, err, "accept error: %s", err)

	lock := s.aliceNode.QueryLocks()[0]

	// ordinary transfer consumes the original before finalisation
	moved, err := ledger.Transfer(s.aliceNode, item.Asset.Id, s.bob)
	assert.Nil(t, err, "transfer error: %s", err)

	outcome, _, err := reissue.Finalize(s.aliceNode, lock)
	assert.Nil(t, err, "finalize error: %s", err)
	assert.Equal(t, reissue.OutcomeAborted, outcome, "wrong outcome")

	// the transfer stands, the lock and replacement are gone
	current, err := s.bobNode.QueryAssetById(item.Asset.Id)
	assert.Nil(t, err, "query error: %s", err)
	assert.Equal(t, moved.Ref, current.Ref, "transfer must stand")
	assert.True(t, current.Asset.OwnerId.Equal(s.bob), "wrong owner")

	assert.Equal(t, 0, len(s.aliceNode.QueryLocks()), "lock must be gone")
	assert.Equal(t, 0, len(s.aliceNode.QueryAssets(&s.alice)), "no dangling records")
}
