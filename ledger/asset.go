// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// AssetRecord - a versioned ownership record
//
// the unique id is stable across transfer and reissuance; payload,
// issuer and owner are preserved byte for byte across a reissuance
type AssetRecord struct {
	Payload        string   `json:"payload"`
	IssuerId       Party    `json:"issuer"`
	OwnerId        Party    `json:"owner"`
	Id             UniqueId `json:"id"`
	ParticipantSet []Party  `json:"participants"`
}

// NewAssetRecord - create a record ready for issuance
func NewAssetRecord(payload string, issuer Party, owner Party) *AssetRecord {
	return &AssetRecord{
		Payload:        payload,
		IssuerId:       issuer,
		OwnerId:        owner,
		Id:             NewUniqueId(),
		ParticipantSet: []Party{owner},
	}
}

// Kind - record type tag
func (asset *AssetRecord) Kind() Kind {
	return KindAsset
}

// UniqueId - stable record identity
func (asset *AssetRecord) UniqueId() UniqueId {
	return asset.Id
}

// Issuer - the minting identity
func (asset *AssetRecord) Issuer() Party {
	return asset.IssuerId
}

// Owner - the current exclusive owner
func (asset *AssetRecord) Owner() Party {
	return asset.OwnerId
}

// Participants - identities that store this record version
func (asset *AssetRecord) Participants() []Party {
	return asset.ParticipantSet
}

// Pack - canonical byte form
func (asset *AssetRecord) Pack() []byte {
	buffer := packUint64(nil, uint64(KindAsset))
	buffer = packString(buffer, asset.Payload)
	buffer = packParty(buffer, asset.IssuerId)
	buffer = packParty(buffer, asset.OwnerId)
	buffer = packBytes(buffer, asset.Id[:])
	return packParties(buffer, asset.ParticipantSet)
}

// WithNewOwner - the next version after a transfer
//
// owner and participant set change, identity never does
func (asset *AssetRecord) WithNewOwner(newOwner Party) *AssetRecord {
	return &AssetRecord{
		Payload:        asset.Payload,
		IssuerId:       asset.IssuerId,
		OwnerId:        newOwner,
		Id:             asset.Id,
		ParticipantSet: []Party{newOwner},
	}
}

// Duplicate - a fresh copy with identical content
func (asset *AssetRecord) Duplicate() *AssetRecord {
	participants := make([]Party, len(asset.ParticipantSet))
	copy(participants, asset.ParticipantSet)
	return &AssetRecord{
		Payload:        asset.Payload,
		IssuerId:       asset.IssuerId,
		OwnerId:        asset.OwnerId,
		Id:             asset.Id,
		ParticipantSet: participants,
	}
}

// ContentEquals - logical equality of record content
//
// the producing transaction and backchain depth are deliberately not part
// of this comparison
func (asset *AssetRecord) ContentEquals(other *AssetRecord) bool {
	if nil == other {
		return false
	}
	return asset.Payload == other.Payload &&
		asset.IssuerId.Equal(other.IssuerId) &&
		asset.OwnerId.Equal(other.OwnerId) &&
		asset.Id == other.Id
}
