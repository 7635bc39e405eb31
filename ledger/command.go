// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// Command - type code for a transaction's intent
type Command uint64

// enumerate the possible commands
const (
	// null marks beginning of list - not used as a command
	NullCommand Command = iota

	CmdIssue          // mint a new asset record
	CmdTransfer       // replace owner and participant set
	CmdExit           // retire a record with no replacement
	CmdRequestReissue // produce a reissuance request
	CmdAcceptReissue  // consume a request, mint replacement plus active lock
	CmdUnlock         // release the replacement, flip lock inactive
	CmdDeleteLock     // abort: delete active lock and replacement

	// this item must be last
	InvalidCommand
)

// internal conversion
func commandToString(command Command) ([]byte, error) {
	switch command {
	case CmdIssue:
		return []byte("issue"), nil
	case CmdTransfer:
		return []byte("transfer"), nil
	case CmdExit:
		return []byte("exit"), nil
	case CmdRequestReissue:
		return []byte("request-reissue"), nil
	case CmdAcceptReissue:
		return []byte("accept-reissue"), nil
	case CmdUnlock:
		return []byte("unlock"), nil
	case CmdDeleteLock:
		return []byte("delete-lock"), nil
	default:
		return []byte{}, fault.ErrInvalidCommand
	}
}

// String - convert a command to its string form
func (command Command) String() string {
	s, err := commandToString(command)
	if nil != err {
		logger.Panicf("invalid command enumeration: %d", command)
	}
	return string(s)
}

// MarshalText - convert a command to text
func (command Command) MarshalText() ([]byte, error) {
	return commandToString(command)
}

// UnmarshalText - convert a command from text
func (command *Command) UnmarshalText(s []byte) error {
	for c := NullCommand + 1; c < InvalidCommand; c += 1 {
		t, _ := commandToString(c)
		if string(t) == string(s) {
			*command = c
			return nil
		}
	}
	return fault.ErrInvalidCommand
}
