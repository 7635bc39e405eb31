// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// ReissuanceRequest - requester asks issuer to mint a shallow replacement
//
// created once by the requester, consumed once by the issuer's
// acceptance, never updated
type ReissuanceRequest struct {
	Requester       Party      `json:"requester"`
	IssuerId        Party      `json:"issuer"`
	Originals       []StateRef `json:"originals"`
	IssuanceCommand Command    `json:"issuanceCommand"`
	Id              UniqueId   `json:"id"`
}

// NewReissuanceRequest - create a request naming the issuer and originals
func NewReissuanceRequest(requester Party, issuer Party, originals []StateRef, issuanceCommand Command) *ReissuanceRequest {
	return &ReissuanceRequest{
		Requester:       requester,
		IssuerId:        issuer,
		Originals:       originals,
		IssuanceCommand: issuanceCommand,
		Id:              NewUniqueId(),
	}
}

func (request *ReissuanceRequest) Kind() Kind {
	return KindRequest
}

func (request *ReissuanceRequest) UniqueId() UniqueId {
	return request.Id
}

func (request *ReissuanceRequest) Issuer() Party {
	return request.IssuerId
}

func (request *ReissuanceRequest) Owner() Party {
	return request.Requester
}

func (request *ReissuanceRequest) Participants() []Party {
	return []Party{request.Requester, request.IssuerId}
}

// Pack - canonical byte form
func (request *ReissuanceRequest) Pack() []byte {
	buffer := packUint64(nil, uint64(KindRequest))
	buffer = packParty(buffer, request.Requester)
	buffer = packParty(buffer, request.IssuerId)
	buffer = packRefs(buffer, request.Originals)
	buffer = packUint64(buffer, uint64(request.IssuanceCommand))
	return packBytes(buffer, request.Id[:])
}

// Covers - true if the request names exactly this set of originals
func (request *ReissuanceRequest) Covers(refs []StateRef) bool {
	return refSetEqual(request.Originals, refs)
}
