// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package automation

import (
	"context"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/thorgilman/corda-reissuance-automation/backchain"
	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
	"github.com/thorgilman/corda-reissuance-automation/reissue"
)

type taskKind int

const (
	taskRequest taskKind = iota
	taskAccept
	taskFinalize
)

// task - one unit of protocol work for the pool
type task struct {
	kind    taskKind
	asset   ledger.AssetAndRef
	request ledger.RequestAndRef
	lock    ledger.LockAndRef
}

// worker - drains the task queue, paced by the shared rate limiter
type worker struct {
	service *Service
	log     *logger.L
}

func (w *worker) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-shutdown
		cancel()
	}()

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case item := <-w.service.tasks:
			if err := w.service.limiter.Wait(ctx); nil != err {
				w.service.pending.Decrement()
				break loop
			}
			w.dispatch(item)
			w.service.pending.Decrement()
		}
	}
	log.Info("shutting down…")
}

func (w *worker) dispatch(item task) {
	var key string
	var err error

	switch item.kind {
	case taskRequest:
		key = "asset:" + item.asset.Asset.Id.String()
		err = w.doRequest(item.asset)
	case taskAccept:
		key = "request:" + item.request.Request.Id.String()
		err = w.doAccept(item.request)
	case taskFinalize:
		key = "lock:" + item.lock.Lock.Id.String()
		err = w.doFinalize(item.lock)
	default:
		logger.Panicf("invalid task kind: %d", item.kind)
	}

	// a finished item is released immediately; a failed one stays
	// marked in flight so the rescan backs off until the mark expires
	if nil == err {
		w.service.inFlight.Delete(key)
		return
	}

	// a request that conflicted can never be accepted later, its
	// originals or the request itself are already consumed; the
	// permanent mark stops the polls from offering it again
	if taskAccept == item.kind && fault.IsErrConflict(err) {
		w.service.inFlight.Set(key, struct{}{}, gocache.NoExpiration)
	}
}

// requester side: file a reissuance request for a long chained record
func (w *worker) doRequest(item ledger.AssetAndRef) error {
	log := w.log

	// the queue entry may be stale, measure again before submitting
	length, err := backchain.Length(w.service.client, item.Ref)
	if nil != err {
		log.Warnf("backchain: %s: error: %s", item.Asset.Id, err)
		return err
	}
	if length <= w.service.cfg.MaxBackchainLength {
		return nil
	}

	_, err = reissue.Request(w.service.client, w.service.send, item.Asset.IssuerId,
		[]ledger.StateRef{item.Ref}, ledger.CmdIssue)
	switch {
	case nil == err:
		log.Infof("request filed: %s  length: %d", item.Asset.Id, length)
		return nil
	case fault.IsErrExists(err):
		// an earlier instance is already in flight
		log.Debugf("request: %s: %s", item.Asset.Id, err)
		return nil
	case fault.IsErrUnreachable(err):
		log.Warnf("request: %s: issuer unreachable, will retry", item.Asset.Id)
		return err
	case fault.IsErrConflict(err) || fault.IsErrInvalid(err):
		// the record moved between scan and submission
		log.Debugf("request: %s: %s", item.Asset.Id, err)
		return nil
	default:
		log.Errorf("request: %s: error: %s", item.Asset.Id, err)
		return err
	}
}

// issuer side: answer a request addressed to this identity
func (w *worker) doAccept(item ledger.RequestAndRef) error {
	log := w.log

	txId, err := reissue.Accept(w.service.client, item)
	switch {
	case nil == err:
		log.Infof("accepted request: %s  tx: %s", item.Request.Id, txId)
		return nil
	case fault.IsErrLookup(err):
		// evidence not delivered yet, retry after the backoff
		log.Warnf("accept: %s: awaiting evidence: %s", item.Request.Id, err)
		return err
	case fault.IsErrConflict(err):
		// the request or an original was consumed in the meantime
		log.Warnf("accept: %s: abandoned: %s", item.Request.Id, err)
		return err
	case fault.IsErrInvalid(err):
		log.Warnf("accept: %s: rejected: %s", item.Request.Id, err)
		return nil
	default:
		log.Errorf("accept: %s: error: %s", item.Request.Id, err)
		return err
	}
}

// requester side: complete an active lock held by this identity
func (w *worker) doFinalize(item ledger.LockAndRef) error {
	log := w.log

	outcome, txId, err := reissue.Finalize(w.service.client, item)
	switch {
	case nil == err:
		log.Infof("finalised lock: %s  outcome: %s  tx: %s", item.Lock.Id, outcome, txId)
		return nil
	case fault.IsErrConflict(err):
		// another worker or a restart already completed it
		log.Debugf("finalize: %s: %s", item.Lock.Id, err)
		return nil
	default:
		log.Errorf("finalize: %s: error: %s", item.Lock.Id, err)
		return err
	}
}
