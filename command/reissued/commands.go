// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
)

// setup command handler
//
// commands that run without the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version":
		fmt.Println(version)

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                (h)      - display this message\n\n")
		fmt.Printf("  version             (v)      - display version string\n\n")
		fmt.Printf("  dump-config         (dc)     - display the parsed configuration\n\n")
		fmt.Printf("  start                        - run the automation daemon (default)\n\n")

	default:
		return false
	}
	return true
}

// config command handler
//
// commands that run after reading the configuration file
// but before starting any background tasks
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := ""
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "dump-config", "dc":
		b, err := json.MarshalIndent(options, "", "  ")
		if nil != err {
			exitwithstatus.Message("dump-config: JSON marshal error: %s", err)
		}
		fmt.Fprintln(os.Stdout, string(b))

	case "start", "":
		return false // continue into the daemon

	default:
		return false
	}
	return true
}
