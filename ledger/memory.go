// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// buffered fan-out so a slow subscriber cannot stall a commit
const subscriptionQueueSize = 100

type consumption struct {
	txId    TxId
	command Command
}

type producedEntry struct {
	ref   StateRef
	state State
}

// Network - in-process reference implementation of the external ledger
//
// one shared store plays the transaction engine and the notary: it
// validates well-formedness, guarantees at most one consumption of any
// record reference, and fans produced records out to the participant
// nodes
type Network struct {
	sync.RWMutex
	log        *logger.L
	nodes      map[string]*Node
	unconsumed map[string]*producedEntry
	consumed   map[string]consumption
	lockPair   map[string]StateRef // replacement ref key -> encumbering lock ref
}

// NewNetwork - create an empty ledger shared by any number of nodes
func NewNetwork() *Network {
	return &Network{
		log:        logger.New("memory-ledger"),
		nodes:      make(map[string]*Node),
		unconsumed: make(map[string]*producedEntry),
		consumed:   make(map[string]consumption),
		lockPair:   make(map[string]StateRef),
	}
}

// Connect - create the client a party uses to reach the ledger
func (n *Network) Connect(identity Party) *Node {
	n.Lock()
	defer n.Unlock()

	node := &Node{
		network:  n,
		identity: identity,
		txs:      make(map[TxId]*Transaction),
	}
	n.nodes[identity.Name] = node
	return node
}

// Node - one participant's view of the shared ledger
//
// implements Client; the transaction store is local to the node so
// data availability matches what a real multi-party deployment has:
// a node holds transactions it took part in (plus their ancestry,
// received alongside) or was explicitly sent
type Node struct {
	network  *Network
	identity Party

	sync.RWMutex
	txs         map[TxId]*Transaction
	requestSubs []chan RequestAndRef
	lockSubs    []chan LockAndRef
}

// Identity - the party this node acts as
func (node *Node) Identity() Party {
	return node.identity
}

// Submit - validate, notarise and commit one transaction
func (node *Node) Submit(tx *Transaction) (TxId, error) {
	return node.network.commit(node, tx)
}

// GetTransaction - read the node local transaction store
func (node *Node) GetTransaction(txId TxId) (*Transaction, error) {
	node.RLock()
	defer node.RUnlock()

	tx, ok := node.txs[txId]
	if !ok {
		return nil, fault.ErrTransactionNotFound
	}
	return tx, nil
}

// ReceiveTransactions - accept transactions shared by a counterparty
//
// this is how a requester makes an original's evidentiary backchain
// available to the issuer before asking for reissuance
func (node *Node) ReceiveTransactions(txs []*Transaction) {
	node.Lock()
	defer node.Unlock()

	for _, tx := range txs {
		node.txs[tx.Id()] = tx
	}
}

func (node *Node) storeTransaction(txId TxId, tx *Transaction) {
	node.Lock()
	defer node.Unlock()

	node.txs[txId] = tx
}

// ancestry - every stored transaction reachable from the references
// a new transaction consumes
func (node *Node) ancestry(tx *Transaction) map[TxId]*Transaction {
	node.RLock()
	defer node.RUnlock()

	pending := []TxId{}
	for _, ref := range tx.Inputs {
		pending = append(pending, ref.TxId)
	}
	for _, ref := range tx.Consumes {
		pending = append(pending, ref.TxId)
	}

	result := make(map[TxId]*Transaction)
	for len(pending) > 0 {
		txId := pending[0]
		pending = pending[1:]

		if _, ok := result[txId]; ok {
			continue
		}
		prev, ok := node.txs[txId]
		if !ok {
			continue
		}
		result[txId] = prev
		for _, ref := range prev.Inputs {
			pending = append(pending, ref.TxId)
		}
		for _, ref := range prev.Consumes {
			pending = append(pending, ref.TxId)
		}
	}
	return result
}

func (node *Node) visible(state State) bool {
	for _, p := range state.Participants() {
		if p.Equal(node.identity) {
			return true
		}
	}
	return false
}

// an asset paired with an active lock is encumbered: not freely
// transferable, so queries for usable records never return it
func (n *Network) encumbered(ref StateRef) bool {
	_, ok := n.lockPair[ref.String()]
	return ok
}

// QueryAssets - unconsumed, unencumbered asset records visible to this node
func (node *Node) QueryAssets(owner *Party) []AssetAndRef {
	node.network.RLock()
	defer node.network.RUnlock()

	result := []AssetAndRef{}
	for _, entry := range node.network.unconsumed {
		asset, ok := entry.state.(*AssetRecord)
		if !ok || !node.visible(asset) || node.network.encumbered(entry.ref) {
			continue
		}
		if nil != owner && !asset.OwnerId.Equal(*owner) {
			continue
		}
		result = append(result, AssetAndRef{Ref: entry.ref, Asset: asset})
	}
	return result
}

// QueryAssetById - current usable version of an asset by stable identity
func (node *Node) QueryAssetById(id UniqueId) (AssetAndRef, error) {
	node.network.RLock()
	defer node.network.RUnlock()

	for _, entry := range node.network.unconsumed {
		asset, ok := entry.state.(*AssetRecord)
		if ok && asset.Id == id && node.visible(asset) && !node.network.encumbered(entry.ref) {
			return AssetAndRef{Ref: entry.ref, Asset: asset}, nil
		}
	}
	return AssetAndRef{}, fault.ErrAssetNotFound
}

// QueryRequests - unconsumed reissuance requests visible to this node
func (node *Node) QueryRequests() []RequestAndRef {
	node.network.RLock()
	defer node.network.RUnlock()

	result := []RequestAndRef{}
	for _, entry := range node.network.unconsumed {
		request, ok := entry.state.(*ReissuanceRequest)
		if ok && node.visible(request) {
			result = append(result, RequestAndRef{Ref: entry.ref, Request: request})
		}
	}
	return result
}

// QueryLocks - unconsumed reissuance locks visible to this node
func (node *Node) QueryLocks() []LockAndRef {
	node.network.RLock()
	defer node.network.RUnlock()

	result := []LockAndRef{}
	for _, entry := range node.network.unconsumed {
		lock, ok := entry.state.(*ReissuanceLock)
		if ok && node.visible(lock) {
			result = append(result, LockAndRef{Ref: entry.ref, Lock: lock})
		}
	}
	return result
}

// SubscribeRequests - stream of newly produced requests visible to this node
func (node *Node) SubscribeRequests() <-chan RequestAndRef {
	node.Lock()
	defer node.Unlock()

	ch := make(chan RequestAndRef, subscriptionQueueSize)
	node.requestSubs = append(node.requestSubs, ch)
	return ch
}

// SubscribeLocks - stream of newly produced locks visible to this node
func (node *Node) SubscribeLocks() <-chan LockAndRef {
	node.Lock()
	defer node.Unlock()

	ch := make(chan LockAndRef, subscriptionQueueSize)
	node.lockSubs = append(node.lockSubs, ch)
	return ch
}

func (node *Node) notifyRequest(item RequestAndRef) {
	node.RLock()
	defer node.RUnlock()

	for _, ch := range node.requestSubs {
		select {
		case ch <- item:
		default:
			node.network.log.Criticalf("request subscription overflow on: %s", node.identity)
		}
	}
}

func (node *Node) notifyLock(item LockAndRef) {
	node.RLock()
	defer node.RUnlock()

	for _, ch := range node.lockSubs {
		select {
		case ch <- item:
		default:
			node.network.log.Criticalf("lock subscription overflow on: %s", node.identity)
		}
	}
}

// commit - notarise and apply one transaction atomically
func (n *Network) commit(origin *Node, tx *Transaction) (TxId, error) {
	n.Lock()
	defer n.Unlock()

	txId := tx.Id()

	if err := n.validate(tx); nil != err {
		n.log.Warnf("reject %s from %s: %s", tx.Command, origin.identity, err)
		return TxId{}, err
	}

	// single consumption of every referenced record
	allRefs := make([]StateRef, 0, len(tx.Inputs)+len(tx.Consumes))
	allRefs = append(allRefs, tx.Inputs...)
	allRefs = append(allRefs, tx.Consumes...)
	for _, ref := range allRefs {
		key := ref.String()
		delete(n.unconsumed, key)
		delete(n.lockPair, key)
		n.consumed[key] = consumption{txId: txId, command: tx.Command}
	}

	// produce the outputs
	produced := make([]*producedEntry, len(tx.Outputs))
	for i, out := range tx.Outputs {
		entry := &producedEntry{
			ref:   StateRef{TxId: txId, Index: i},
			state: out,
		}
		n.unconsumed[entry.ref.String()] = entry
		produced[i] = entry
	}

	// an acceptance encumbers every replacement with the lock it
	// was co-created with; the pairing lives until both are consumed
	if CmdAcceptReissue == tx.Command && len(produced) > 0 {
		lockRef := produced[len(produced)-1].ref
		for _, entry := range produced[:len(produced)-1] {
			n.lockPair[entry.ref.String()] = lockRef
		}
	}

	// distribute the transaction and its ancestry to every involved
	// node: a recipient must be able to resolve the history of what
	// it now holds, exactly as the submitter could
	involved := map[string]struct{}{origin.identity.Name: {}}
	for _, signer := range tx.Signers {
		involved[signer.Name] = struct{}{}
	}
	for _, out := range tx.Outputs {
		for _, p := range out.Participants() {
			involved[p.Name] = struct{}{}
		}
	}
	history := origin.ancestry(tx)
	for name := range involved {
		if node, ok := n.nodes[name]; ok {
			node.storeTransaction(txId, tx)
			for prevId, prev := range history {
				node.storeTransaction(prevId, prev)
			}
		}
	}

	// fan out new protocol records to subscribed participants
	for _, entry := range produced {
		switch state := entry.state.(type) {
		case *ReissuanceRequest:
			for _, p := range state.Participants() {
				if node, ok := n.nodes[p.Name]; ok {
					node.notifyRequest(RequestAndRef{Ref: entry.ref, Request: state})
				}
			}
		case *ReissuanceLock:
			for _, p := range state.Participants() {
				if node, ok := n.nodes[p.Name]; ok {
					node.notifyLock(LockAndRef{Ref: entry.ref, Lock: state})
				}
			}
		}
	}

	n.log.Infof("commit %s: %s", tx.Command, txId)
	return txId, nil
}

// resolve - find a referenced record, distinguishing consumed from unknown
func (n *Network) resolve(ref StateRef) (State, error) {
	key := ref.String()
	if entry, ok := n.unconsumed[key]; ok {
		return entry.state, nil
	}
	if _, ok := n.consumed[key]; ok {
		return nil, fault.ErrStateAlreadyConsumed
	}
	return nil, fault.ErrStateNotFound
}
