// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"

	"github.com/thorgilman/corda-reissuance-automation/fault"
)

// Transaction - immutable unit of ledger change
//
// Inputs are the history bearing references followed by the backchain
// walk; Consumes are protocol records retired alongside them; Evidence
// carries exit transaction ids justifying an unlock
type Transaction struct {
	Inputs   []StateRef
	Consumes []StateRef
	Outputs  []State
	Command  Command
	Signers  []Party
	Evidence []TxId
}

// Pack - canonical byte form, digested for the transaction id
func (tx *Transaction) Pack() []byte {
	buffer := packUint64(nil, uint64(tx.Command))
	buffer = packRefs(buffer, tx.Inputs)
	buffer = packRefs(buffer, tx.Consumes)
	buffer = packUint64(buffer, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buffer = packBytes(buffer, out.Pack())
	}
	buffer = packParties(buffer, tx.Signers)
	buffer = packUint64(buffer, uint64(len(tx.Evidence)))
	for _, txId := range tx.Evidence {
		buffer = append(buffer, txId[:]...)
	}
	return buffer
}

// Id - the transaction identifier
func (tx *Transaction) Id() TxId {
	return NewTxId(tx.Pack())
}

// IsIssuance - true for a transaction with no history bearing inputs
func (tx *Transaction) IsIssuance() bool {
	return 0 == len(tx.Inputs)
}

// OutputRef - reference to the n'th output
func (tx *Transaction) OutputRef(index int) StateRef {
	return StateRef{
		TxId:  tx.Id(),
		Index: index,
	}
}

// SignedBy - check a required signer is present
func (tx *Transaction) SignedBy(party Party) bool {
	for _, signer := range tx.Signers {
		if signer.Equal(party) {
			return true
		}
	}
	return false
}

// EvidenceContains - check an exit transaction id is listed
func (tx *Transaction) EvidenceContains(txId TxId) bool {
	for _, e := range tx.Evidence {
		if e == txId {
			return true
		}
	}
	return false
}

// wire form: outputs are tagged so the poly record types survive JSON

type outputEnvelope struct {
	Kind   Kind            `json:"kind"`
	Record json.RawMessage `json:"record"`
}

type transactionEnvelope struct {
	Inputs   []StateRef       `json:"inputs"`
	Consumes []StateRef       `json:"consumes"`
	Outputs  []outputEnvelope `json:"outputs"`
	Command  Command          `json:"command"`
	Signers  []Party          `json:"signers"`
	Evidence []TxId           `json:"evidence"`
}

// MarshalJSON - wire form for node to node transmission
func (tx Transaction) MarshalJSON() ([]byte, error) {
	envelope := transactionEnvelope{
		Inputs:   tx.Inputs,
		Consumes: tx.Consumes,
		Outputs:  make([]outputEnvelope, len(tx.Outputs)),
		Command:  tx.Command,
		Signers:  tx.Signers,
		Evidence: tx.Evidence,
	}
	for i, out := range tx.Outputs {
		record, err := json.Marshal(out)
		if nil != err {
			return nil, err
		}
		envelope.Outputs[i] = outputEnvelope{
			Kind:   out.Kind(),
			Record: record,
		}
	}
	return json.Marshal(envelope)
}

// UnmarshalJSON - decode the wire form
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	envelope := transactionEnvelope{}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	outputs := make([]State, len(envelope.Outputs))
	for i, out := range envelope.Outputs {
		switch out.Kind {
		case KindAsset:
			record := &AssetRecord{}
			if err := json.Unmarshal(out.Record, record); err != nil {
				return err
			}
			outputs[i] = record
		case KindRequest:
			record := &ReissuanceRequest{}
			if err := json.Unmarshal(out.Record, record); err != nil {
				return err
			}
			outputs[i] = record
		case KindLock:
			record := &ReissuanceLock{}
			if err := json.Unmarshal(out.Record, record); err != nil {
				return err
			}
			outputs[i] = record
		default:
			return fault.ErrInvalidKind
		}
	}

	tx.Inputs = envelope.Inputs
	tx.Consumes = envelope.Consumes
	tx.Outputs = outputs
	tx.Command = envelope.Command
	tx.Signers = envelope.Signers
	tx.Evidence = envelope.Evidence
	return nil
}
