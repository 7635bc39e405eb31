// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// scenario - demonstration workload over the shared ledger
//
// issues the configured number of assets, then passes every asset to
// the next participant in the ring on each tick; the growing
// backchains trip the automation threshold so the log shows the full
// request, accept, exit and unlock cycle without manual input
type scenario struct {
	log          *logger.L
	issuer       ledger.Party
	issuerNode   *ledger.Node
	participants []ledger.Party
	nodes        map[string]*ledger.Node
	assets       int
	interval     time.Duration
}

func (s *scenario) Run(args interface{}, shutdown <-chan struct{}) {
	s.log = logger.New("scenario")
	log := s.log
	log.Info("starting…")

	for i := 0; i < s.assets; i += 1 {
		owner := s.participants[i%len(s.participants)]
		payload := fmt.Sprintf("asset-%d", i+1)
		item, err := ledger.Issue(s.issuerNode, s.issuer, owner, payload)
		if nil != err {
			log.Errorf("issue: %q error: %s", payload, err)
			continue
		}
		log.Infof("issued: %q id: %s owner: %s", payload, item.Asset.Id, owner)
	}

	if len(s.participants) < 2 {
		log.Warn("single participant, no transfers will occur")
		<-shutdown
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			s.transferRound()
		}
	}
	log.Info("shutting down…")
}

// pass every held asset one step around the participant ring
func (s *scenario) transferRound() {
	log := s.log

	for i, owner := range s.participants {
		next := s.participants[(i+1)%len(s.participants)]
		node := s.nodes[owner.Name]

		for _, item := range node.QueryAssets(&owner) {
			moved, err := ledger.Transfer(node, item.Asset.Id, next)
			if nil != err {
				// a reissuance may have raced this exact reference
				log.Warnf("transfer: %s error: %s", item.Asset.Id, err)
				continue
			}
			log.Infof("transferred: %s from: %s to: %s", moved.Asset.Id, owner, next)
		}
	}
}
