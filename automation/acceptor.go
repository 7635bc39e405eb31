// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package automation

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// acceptor - issuer side of the protocol
//
// drains requests already on the ledger at startup, then follows the
// subscription; a slow periodic poll picks up anything a full
// subscription buffer dropped and retries requests that were waiting
// on undelivered evidence
type acceptor struct {
	service *Service
	log     *logger.L
}

func (acc *acceptor) Run(args interface{}, shutdown <-chan struct{}) {
	acc.log = logger.New("automation-accept")
	log := acc.log
	log.Info("starting…")

	acc.poll()

	incoming := acc.service.client.SubscribeRequests()
	ticker := time.NewTicker(acc.service.cfg.pollInterval())
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-incoming:
			acc.offer(item)
		case <-ticker.C:
			acc.poll()
		}
	}
	log.Info("shutting down…")
}

func (acc *acceptor) poll() {
	for _, item := range acc.service.client.QueryRequests() {
		acc.offer(item)
	}
}

func (acc *acceptor) offer(item ledger.RequestAndRef) {
	if !item.Request.IssuerId.Equal(acc.service.client.Identity()) {
		return
	}
	acc.log.Debugf("request: %s from: %s", item.Request.Id, item.Request.Requester)
	acc.service.enqueueAccept(item)
}
