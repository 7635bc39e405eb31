// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// error base
type GenericError string

// to allow for different classes of errors
type ConflictError GenericError
type ExistsError GenericError
type InvalidError GenericError
type LookupError GenericError
type NotFoundError GenericError
type UnreachableError GenericError

// common errors - keep in alphabetic order
var (
	ErrAssetNotFound              = NotFoundError("asset record not found")
	ErrBackchainShareFailed       = UnreachableError("backchain share to issuer failed")
	ErrChainTransactionNotFound   = LookupError("backchain transaction not found")
	ErrCounterpartyUnreachable    = UnreachableError("counterparty is unreachable")
	ErrIncorrectEvidence          = InvalidError("unlock evidence does not match exits")
	ErrInvalidCommand             = InvalidError("command is invalid")
	ErrInvalidKind                = InvalidError("record kind is invalid")
	ErrInvalidLockStatus          = InvalidError("lock status is invalid")
	ErrInvalidStructPointer       = InvalidError("invalid struct pointer")
	ErrInvalidTransaction         = InvalidError("transaction is not well formed")
	ErrIssuerMismatch             = InvalidError("issuer does not match request")
	ErrLockNotActive              = InvalidError("reissuance lock is not active")
	ErrLockNotFound               = NotFoundError("reissuance lock not found")
	ErrMissingSigner              = InvalidError("required signer is missing")
	ErrNotOwner                   = InvalidError("record is not owned by this party")
	ErrRecordEncumbered           = InvalidError("record is encumbered by an active lock")
	ErrReissuancePending          = ExistsError("reissuance already pending for record")
	ErrReplacementContentMismatch = InvalidError("replacement record content differs from original")
	ErrRequesterNotParticipant    = InvalidError("requester is not a participant of record")
	ErrStateAlreadyConsumed       = ConflictError("record reference already consumed")
	ErrStateNotFound              = NotFoundError("record reference not found")
	ErrTransactionNotFound        = LookupError("transaction not found")
	ErrTxIdLength                 = InvalidError("transaction id length is invalid")
	ErrUniqueIdLength             = InvalidError("unique id length is invalid")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ConflictError) Error() string    { return string(e) }
func (e ExistsError) Error() string      { return string(e) }
func (e InvalidError) Error() string     { return string(e) }
func (e LookupError) Error() string      { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e UnreachableError) Error() string { return string(e) }

// determine the class of an error
func IsErrConflict(e error) bool    { _, ok := e.(ConflictError); return ok }
func IsErrExists(e error) bool      { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool     { _, ok := e.(InvalidError); return ok }
func IsErrLookup(e error) bool      { _, ok := e.(LookupError); return ok }
func IsErrNotFound(e error) bool    { _, ok := e.(NotFoundError); return ok }
func IsErrUnreachable(e error) bool { _, ok := e.(UnreachableError); return ok }
