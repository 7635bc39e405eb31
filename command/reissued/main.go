// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// reissued - reissuance automation daemon
//
// hosts the reference in-process ledger with one automation service
// per party and drives a small transfer workload over it, so the
// whole request, accept, exit and unlock cycle can be observed from
// one process; evidence between parties travels over the configured
// courier transport
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/automation"
	"github.com/thorgilman/corda-reissuance-automation/background"
	"github.com/thorgilman/corda-reissuance-automation/courier"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	if 0 == len(theConfiguration.Participants) {
		exitwithstatus.Message("%s: at least one participant is required", program)
	}

	// the shared ledger and one node per party
	network := ledger.NewNetwork()

	issuer := ledger.NewParty(theConfiguration.Issuer)
	issuerNode := network.Connect(issuer)
	log.Infof("issuer: %s account: %s", issuer, issuer.Account())

	participants := make([]ledger.Party, len(theConfiguration.Participants))
	nodes := map[string]*ledger.Node{issuer.Name: issuerNode}
	for i, name := range theConfiguration.Participants {
		participants[i] = ledger.NewParty(name)
		nodes[name] = network.Connect(participants[i])
		log.Infof("participant: %s account: %s", participants[i], participants[i].Account())
	}

	// courier transport between the parties
	couriers := map[string]courier.Courier{}
	listeners := background.Processes{}
	switch theConfiguration.Transport {

	case "", "loopback":
		loopback := courier.NewLoopback()
		for name, node := range nodes {
			loopback.Register(ledger.NewParty(name), node)
			couriers[name] = loopback
		}

	case "zmq":
		for name, node := range nodes {
			endpoint, ok := theConfiguration.Endpoints[name]
			if !ok {
				exitwithstatus.Message("%s: missing endpoint for party: %q", program, name)
			}
			couriers[name] = courier.NewZMQ(ledger.NewParty(name), theConfiguration.Endpoints)
			listeners = append(listeners, courier.NewListener(endpoint, node))
		}

	default:
		exitwithstatus.Message("%s: unsupported transport: %q", program, theConfiguration.Transport)
	}

	var listenerSupervisor *background.T
	if len(listeners) > 0 {
		listenerSupervisor = background.Start(listeners, nil)
		defer listenerSupervisor.Stop()
	}

	// one automation service per party
	services := []*automation.Service{}
	for name, node := range nodes {
		service := automation.NewService(node, couriers[name], theConfiguration.AutomationConfig())
		service.Start()
		services = append(services, service)
	}
	defer func() {
		for _, service := range services {
			service.Stop()
		}
	}()

	// demonstration workload
	workload := background.Start(background.Processes{&scenario{
		issuer:       issuer,
		issuerNode:   issuerNode,
		participants: participants,
		nodes:        nodes,
		assets:       theConfiguration.Scenario.Assets,
		interval:     time.Duration(theConfiguration.Scenario.TransferSeconds) * time.Second,
	}}, nil)
	defer workload.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
