// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/logger"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// LockStatus - lifecycle flag of a reissuance lock
type LockStatus uint64

// possible statuses
const (
	LockNull LockStatus = iota

	LockActive   // replacement is encumbered
	LockInactive // replacement released, kept for the audit trail

	// this item must be last
	LockInvalid
)

// internal conversion
func lockStatusToString(status LockStatus) ([]byte, error) {
	switch status {
	case LockActive:
		return []byte("ACTIVE"), nil
	case LockInactive:
		return []byte("INACTIVE"), nil
	default:
		return []byte{}, fault.ErrInvalidLockStatus
	}
}

// String - convert a status to its string form
func (status LockStatus) String() string {
	s, err := lockStatusToString(status)
	if nil != err {
		logger.Panicf("invalid lock status enumeration: %d", status)
	}
	return string(s)
}

// MarshalText - convert a status to text
func (status LockStatus) MarshalText() ([]byte, error) {
	return lockStatusToString(status)
}

// UnmarshalText - convert a status from text
func (status *LockStatus) UnmarshalText(s []byte) error {
	for st := LockNull + 1; st < LockInvalid; st += 1 {
		t, _ := lockStatusToString(st)
		if string(t) == string(s) {
			*status = st
			return nil
		}
	}
	return fault.ErrInvalidLockStatus
}

// ReissuanceLock - encumbrance binding a replacement to its originals
//
// co-created with the replacement record in one atomic transaction;
// transitions ACTIVE to INACTIVE exactly once, or is deleted on abort
type ReissuanceLock struct {
	Originals []StateRef `json:"originals"`
	Status    LockStatus `json:"status"`
	Requester Party      `json:"requester"`
	IssuerId  Party      `json:"issuer"`
	Id        UniqueId   `json:"id"`
}

// NewReissuanceLock - create an active lock over the original records
func NewReissuanceLock(requester Party, issuer Party, originals []StateRef) *ReissuanceLock {
	return &ReissuanceLock{
		Originals: originals,
		Status:    LockActive,
		Requester: requester,
		IssuerId:  issuer,
		Id:        NewUniqueId(),
	}
}

func (lock *ReissuanceLock) Kind() Kind {
	return KindLock
}

func (lock *ReissuanceLock) UniqueId() UniqueId {
	return lock.Id
}

func (lock *ReissuanceLock) Issuer() Party {
	return lock.IssuerId
}

func (lock *ReissuanceLock) Owner() Party {
	return lock.Requester
}

func (lock *ReissuanceLock) Participants() []Party {
	return []Party{lock.Requester, lock.IssuerId}
}

// Pack - canonical byte form
func (lock *ReissuanceLock) Pack() []byte {
	buffer := packUint64(nil, uint64(KindLock))
	buffer = packRefs(buffer, lock.Originals)
	buffer = packUint64(buffer, uint64(lock.Status))
	buffer = packParty(buffer, lock.Requester)
	buffer = packParty(buffer, lock.IssuerId)
	return packBytes(buffer, lock.Id[:])
}

// WithStatus - the next version of the lock
func (lock *ReissuanceLock) WithStatus(status LockStatus) *ReissuanceLock {
	originals := make([]StateRef, len(lock.Originals))
	copy(originals, lock.Originals)
	return &ReissuanceLock{
		Originals: originals,
		Status:    status,
		Requester: lock.Requester,
		IssuerId:  lock.IssuerId,
		Id:        lock.Id,
	}
}

// Covers - true if the lock binds exactly this set of originals
func (lock *ReissuanceLock) Covers(refs []StateRef) bool {
	return refSetEqual(lock.Originals, refs)
}
