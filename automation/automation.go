// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package automation - unattended backchain trimming
//
// one Service runs per node identity and plays both sides of the
// protocol as the ledger presents work:
//
//  1. a scanner measures the backchain of every owned record and
//     files a reissuance request once the length reaches the
//     configured threshold
//  2. an acceptor answers requests addressed to this identity as
//     issuer, minting encumbered replacements
//  3. a finaliser completes this identity's active locks, retiring
//     the originals and releasing the replacements
//
// work items flow through a bounded worker pool; an in-flight cache
// stops the periodic rescans from double-submitting while a previous
// attempt is still outstanding
package automation

import (
	"time"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/thorgilman/corda-reissuance-automation/background"
	"github.com/thorgilman/corda-reissuance-automation/counter"
	"github.com/thorgilman/corda-reissuance-automation/courier"
	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// defaults applied to zero valued configuration fields
const (
	defaultWorkers            = 8
	defaultMaxBackchainLength = 3
	defaultScanInterval       = 10 * time.Second
	defaultRate               = 50 // ledger submissions per second
)

// the in-flight guard outlives a stuck attempt and then allows a retry
const inFlightLifetime = 2 * time.Minute

// task queue depth; producers drop rather than block when it is full
const queueSize = 256

// Config - tuning for one automation service
//
// a zero ScanInterval limits the scanner to its startup round, later
// rounds must come from CheckAll or CheckOne
type Config struct {
	Workers            int
	MaxBackchainLength int
	ScanInterval       time.Duration
	Rate               float64
}

func (cfg *Config) applyDefaults() {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxBackchainLength <= 0 {
		cfg.MaxBackchainLength = defaultMaxBackchainLength
	}
	if cfg.ScanInterval < 0 {
		cfg.ScanInterval = defaultScanInterval
	}
	if cfg.Rate <= 0 {
		cfg.Rate = defaultRate
	}
}

// re-poll period for the subscription loops; they keep a safety poll
// even when the scanner is startup-only
func (cfg *Config) pollInterval() time.Duration {
	if cfg.ScanInterval > 0 {
		return cfg.ScanInterval
	}
	return defaultScanInterval
}

// Service - the automation loops bound to one ledger identity
type Service struct {
	log      *logger.L
	client   ledger.Client
	send     courier.Courier
	cfg      Config
	tasks    chan task
	trigger  chan struct{}
	inFlight *gocache.Cache
	limiter  *rate.Limiter
	pending  counter.Counter

	processes  background.Processes
	supervisor *background.T
}

// NewService - build a stopped service; Start launches its loops
func NewService(client ledger.Client, send courier.Courier, cfg Config) *Service {
	cfg.applyDefaults()

	s := &Service{
		log:      logger.New("automation"),
		client:   client,
		send:     send,
		cfg:      cfg,
		tasks:    make(chan task, queueSize),
		trigger:  make(chan struct{}, 1),
		inFlight: gocache.New(inFlightLifetime, inFlightLifetime),
		limiter:  rate.NewLimiter(rate.Limit(cfg.Rate), 1),
	}

	s.processes = background.Processes{
		&scanner{service: s},
		&acceptor{service: s},
		&finalizer{service: s},
	}
	for i := 0; i < cfg.Workers; i += 1 {
		s.processes = append(s.processes, &worker{
			service: s,
			log:     logger.New("automation-worker"),
		})
	}
	return s
}

// Start - launch the background loops
func (s *Service) Start() {
	s.log.Infof("start: workers: %d  threshold: %d", s.cfg.Workers, s.cfg.MaxBackchainLength)
	s.supervisor = background.Start(s.processes, nil)
}

// Stop - halt all loops and wait for them to finish
func (s *Service) Stop() {
	s.supervisor.Stop()
	s.log.Info("stopped")
}

// Pending - work items queued or executing right now
func (s *Service) Pending() int {
	return int(s.pending.Current())
}

// CheckAll - trigger an immediate scan of all owned records
func (s *Service) CheckAll() {
	select {
	case s.trigger <- struct{}{}:
	default: // a scan is already queued
	}
}

// CheckOne - evaluate a single record by its stable identity now
//
// the same threshold rule as the periodic scan applies; a record at
// or below the threshold is left alone
func (s *Service) CheckOne(id ledger.UniqueId) error {
	item, err := s.client.QueryAssetById(id)
	if nil != err {
		return err
	}
	if !item.Asset.OwnerId.Equal(s.client.Identity()) {
		return fault.ErrNotOwner
	}
	s.enqueueRequest(item)
	return nil
}

// producers mark an item in flight before queueing so rescans skip it;
// the mark is dropped on completion, or times out after a failure
func (s *Service) enqueue(key string, item task) {
	if err := s.inFlight.Add(key, struct{}{}, inFlightLifetime); nil != err {
		return // already queued or executing
	}
	select {
	case s.tasks <- item:
		s.pending.Increment()
	default:
		s.inFlight.Delete(key)
		s.log.Warn("task queue full, dropping work item")
	}
}

func (s *Service) enqueueRequest(item ledger.AssetAndRef) {
	s.enqueue("asset:"+item.Asset.Id.String(), task{kind: taskRequest, asset: item})
}

func (s *Service) enqueueAccept(item ledger.RequestAndRef) {
	s.enqueue("request:"+item.Request.Id.String(), task{kind: taskAccept, request: item})
}

func (s *Service) enqueueFinalize(item ledger.LockAndRef) {
	s.enqueue("lock:"+item.Lock.Id.String(), task{kind: taskFinalize, lock: item})
}
