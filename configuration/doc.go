// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package configuration - parse a Lua configuration file
//
// the file is a Lua program returning a single table which is mapped
// onto the caller supplied struct using "gluamapper" field tags
package configuration
