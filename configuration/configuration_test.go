// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thorgilman/corda-reissuance-automation/configuration"
)

type testConfig struct {
	Identity     string   `gluamapper:"identity"`
	MaxBackchain int      `gluamapper:"max_backchain"`
	Workers      int      `gluamapper:"workers"`
	Peers        []string `gluamapper:"peers"`
}

const luaFile = `
local M = {
    identity = "Alice",
    max_backchain = 5,
    workers = 4,
    peers = {"tcp://127.0.0.1:7200", "tcp://127.0.0.1:7201"},
}
return M
`

func TestParseConfigurationFile(t *testing.T) {

	dir := t.TempDir()
	fileName := filepath.Join(dir, "reissued.conf")
	err := os.WriteFile(fileName, []byte(luaFile), 0600)
	require.NoError(t, err)

	config := &testConfig{
		MaxBackchain: 3, // default must be overridden
		Workers:      8,
	}
	err = configuration.ParseConfigurationFile(fileName, config)
	require.NoError(t, err)

	assert.Equal(t, "Alice", config.Identity)
	assert.Equal(t, 5, config.MaxBackchain)
	assert.Equal(t, 4, config.Workers)
	assert.Equal(t, []string{"tcp://127.0.0.1:7200", "tcp://127.0.0.1:7201"}, config.Peers)
}

func TestParseRejectsNonPointer(t *testing.T) {
	err := configuration.ParseConfigurationFile("no-such-file", testConfig{})
	assert.Error(t, err)
}
