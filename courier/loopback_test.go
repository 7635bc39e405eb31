// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package courier_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thorgilman/corda-reissuance-automation/courier"
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

func TestLoopbackDelivery(t *testing.T) {
	issuer := ledger.NewParty("Issuer")
	alice := ledger.NewParty("Alice")

	network := ledger.NewNetwork()
	issuerNode := network.Connect(issuer)
	aliceNode := network.Connect(alice)

	asset, err := ledger.Issue(issuerNode, issuer, alice, "Gold")
	require.NoError(t, err)

	// strip the issuer node of its copy to prove delivery works
	outsider := network.Connect(ledger.NewParty("Outsider"))
	_, err = outsider.GetTransaction(asset.Ref.TxId)
	require.Error(t, err)

	lb := courier.NewLoopback()
	lb.Register(ledger.NewParty("Outsider"), outsider)

	tx, err := aliceNode.GetTransaction(asset.Ref.TxId)
	require.NoError(t, err)

	err = lb.Send(ledger.NewParty("Outsider"), []*ledger.Transaction{tx})
	require.NoError(t, err)

	got, err := outsider.GetTransaction(asset.Ref.TxId)
	require.NoError(t, err)
	assert.Equal(t, asset.Ref.TxId, got.Id())
}

func TestLoopbackUnknownPeer(t *testing.T) {
	lb := courier.NewLoopback()

	err := lb.Send(ledger.NewParty("Nobody"), nil)
	require.Error(t, err)
	assert.True(t, fault.IsErrUnreachable(err))
}
