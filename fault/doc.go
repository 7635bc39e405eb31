// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison
// without having to resort to partial string matches
//
// The error classes mirror the recovery policy: LookupError and
// UnreachableError are retried on a later cycle, ConflictError diverts
// to the abort path, InvalidError is terminal for that attempt.
package fault
