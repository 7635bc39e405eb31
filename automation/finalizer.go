// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package automation

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// finalizer - requester side completion of active locks
//
// follows the lock subscription so a freshly minted lock is finalised
// promptly; the startup and periodic polls recover locks left active
// by a crash or a dropped notification
type finalizer struct {
	service *Service
	log     *logger.L
}

func (fin *finalizer) Run(args interface{}, shutdown <-chan struct{}) {
	fin.log = logger.New("automation-finalize")
	log := fin.log
	log.Info("starting…")

	fin.poll()

	incoming := fin.service.client.SubscribeLocks()
	ticker := time.NewTicker(fin.service.cfg.pollInterval())
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-incoming:
			fin.offer(item)
		case <-ticker.C:
			fin.poll()
		}
	}
	log.Info("shutting down…")
}

func (fin *finalizer) poll() {
	for _, item := range fin.service.client.QueryLocks() {
		fin.offer(item)
	}
}

func (fin *finalizer) offer(item ledger.LockAndRef) {
	if ledger.LockActive != item.Lock.Status {
		return
	}
	if !item.Lock.Requester.Equal(fin.service.client.Identity()) {
		return
	}
	fin.log.Debugf("active lock: %s", item.Lock.Id)
	fin.service.enqueueFinalize(item)
}
