// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - records, transactions and the client contract
//
// The base transaction engine, notarisation and signing are external
// collaborators; this package defines the records the reissuance
// protocol reads and writes, the Client interface those collaborators
// are reached through, and an in-process reference ledger implementing
// that contract for tests and simulation.
//
// A transaction consumes record references and produces new records.
// References listed in Inputs carry the record's causal history and
// are what the backchain walk follows; references listed in Consumes
// are protocol records (reissuance requests, locks, encumbered
// replacements) consumed without extending any record's history - that
// distinction is what lets a reissuance acceptance mint a replacement
// with an empty backchain while still atomically consuming the request.
package ledger
