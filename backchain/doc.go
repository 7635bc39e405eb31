// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package backchain - measure and collect a record's causal history
//
// the backchain is derived, never stored: it is recomputed on demand
// from the node's local transaction store
package backchain
