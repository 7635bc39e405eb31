// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/automation"
	"github.com/thorgilman/corda-reissuance-automation/configuration"
)

// basic defaults (directories and files are relative to the
// directory holding the configuration file)
const (
	defaultLogDirectory = "log"
	defaultLogFile      = "reissued.log"
	defaultLogCount     = 10          // number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultWorkers            = 8
	defaultMaxBackchainLength = 3
	defaultScanSeconds        = 10
	defaultRate               = 50

	defaultTransferSeconds = 5
)

// to hold log levels
type LoglevelMap map[string]string

var defaultLogLevels = LoglevelMap{
	logger.DefaultTag: "info",
}

// AutomationType - tuning for the per-party automation services
type AutomationType struct {
	Workers            int     `gluamapper:"workers" json:"workers"`
	MaxBackchainLength int     `gluamapper:"max_backchain_length" json:"max_backchain_length"`
	ScanSeconds        int     `gluamapper:"scan_seconds" json:"scan_seconds"`
	Rate               float64 `gluamapper:"rate" json:"rate"`
}

// ScenarioType - the demonstration workload driven over the ledger
type ScenarioType struct {
	Assets          int `gluamapper:"assets" json:"assets"`
	TransferSeconds int `gluamapper:"transfer_seconds" json:"transfer_seconds"`
}

// Configuration - the daemon configuration
//
// the issuer and every participant share one in-process ledger;
// transport selects how backchain evidence travels between them:
// "loopback" for direct in-process delivery or "zmq" to exchange it
// over push/pull sockets using the per-party endpoints
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Issuer        string               `gluamapper:"issuer" json:"issuer"`
	Participants  []string             `gluamapper:"participants" json:"participants"`
	Transport     string               `gluamapper:"transport" json:"transport"`
	Endpoints     map[string]string    `gluamapper:"endpoints" json:"endpoints"`
	Automation    AutomationType       `gluamapper:"automation" json:"automation"`
	Scenario      ScenarioType         `gluamapper:"scenario" json:"scenario"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// AutomationConfig - convert the file values to service tuning
func (c *Configuration) AutomationConfig() automation.Config {
	return automation.Config{
		Workers:            c.Automation.Workers,
		MaxBackchainLength: c.Automation.MaxBackchainLength,
		ScanInterval:       time.Duration(c.Automation.ScanSeconds) * time.Second,
		Rate:               c.Automation.Rate,
	}
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: dataDirectory,
		PidFile:       "", // no PidFile by default
		Issuer:        "issuer",
		Participants:  []string{"alice", "bob"},
		Transport:     "loopback",
		Endpoints:     map[string]string{},

		Automation: AutomationType{
			Workers:            defaultWorkers,
			MaxBackchainLength: defaultMaxBackchainLength,
			ScanSeconds:        defaultScanSeconds,
			Rate:               defaultRate,
		},

		Scenario: ScenarioType{
			Assets:          1,
			TransferSeconds: defaultTransferSeconds,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.DataDirectory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(dataDirectory, *f)
	}

	return options, nil
}

// ensureAbsolute - if not an absolute path, prepend the directory
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
