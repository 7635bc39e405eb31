// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reissue - the backchain compaction protocol
//
// four steps over the shared ledger:
//
//	Request  - requester shares the evidentiary backchain with the
//	           issuer, then produces a ReissuanceRequest record
//	Accept   - issuer consumes the request and mints, in one atomic
//	           transaction, content-identical replacements with no
//	           history plus an ACTIVE ReissuanceLock
//	Finalize - requester exits the originals, then unlocks the
//	           replacements with the exit transactions as evidence
//	Abort    - requester deletes a lock whose originals were consumed
//	           by something other than an exit, releasing nothing
//
// every durable fact lives in ledger records; the functions here are
// stateless and safe to re-run after a crash
package reissue
