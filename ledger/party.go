// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// Party - a ledger identity
//
// key management is an external concern; the protocol only compares
// identities and lists them as required signers
type Party struct {
	Name      string `json:"name"`
	PublicKey []byte `json:"publicKey"`
}

// NewParty - create an identity with a key derived from its name
//
// real deployments supply real keys through configuration; the derived
// key keeps test identities stable and distinguishable
func NewParty(name string) Party {
	digest := sha3.Sum256([]byte(name))
	return Party{
		Name:      name,
		PublicKey: digest[:],
	}
}

// Equal - identity comparison
func (p Party) Equal(other Party) bool {
	return p.Name == other.Name
}

// IsZero - check for the unset identity
func (p Party) IsZero() bool {
	return "" == p.Name
}

// String - name form for use by the fmt package (for %s)
func (p Party) String() string {
	return p.Name
}

// Account - base58 form of the public key
func (p Party) Account() string {
	return base58.Encode(p.PublicKey)
}
