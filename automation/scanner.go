// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package automation

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/backchain"
)

// scanner - periodic backchain measurement of all owned records
//
// runs once at startup, then on every tick and on every CheckAll
type scanner struct {
	service *Service
	log     *logger.L
}

func (scn *scanner) Run(args interface{}, shutdown <-chan struct{}) {
	scn.log = logger.New("automation-scan")
	log := scn.log
	log.Info("starting…")

	scn.scan()

	// a zero interval keeps the startup scan only; further rounds
	// then come from CheckAll and CheckOne
	var rescan <-chan time.Time
	if interval := scn.service.cfg.ScanInterval; interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		rescan = ticker.C
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-rescan:
			scn.scan()
		case <-scn.service.trigger:
			scn.scan()
		}
	}
	log.Info("shutting down…")
}

func (scn *scanner) scan() {
	log := scn.log
	service := scn.service

	owner := service.client.Identity()
	held := service.client.QueryAssets(&owner)
	log.Debugf("scan: %d owned records", len(held))

	for _, item := range held {
		length, err := backchain.Length(service.client, item.Ref)
		if nil != err {
			log.Warnf("scan: %s: error: %s", item.Asset.Id, err)
			continue
		}
		if length > service.cfg.MaxBackchainLength {
			log.Infof("scan: %s: length: %d exceeds threshold: %d",
				item.Asset.Id, length, service.cfg.MaxBackchainLength)
			service.enqueueRequest(item)
		}
	}
}
