// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package types

import (
	"errors"
	"io"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// TxType tags which variant of the closed Transaction union is carried.
type TxType byte

const (
	// LegacyTxType is an ECDSA-signed transaction sent by an externally
	// owned account.
	LegacyTxType TxType = 0
	// AATxType is an account-abstraction transaction validated by calling
	// validateTransaction on the sender contract (spec §3, §4.5).
	AATxType TxType = 1
)

// AccessTuple mirrors EIP-2930: an address plus the storage slots a
// transaction declares it will touch.
type AccessTuple struct {
	Address     Address
	StorageKeys []Hash
}

// AccessList is an ordered list of AccessTuple.
type AccessList []AccessTuple

// LegacyData is the Legacy transaction variant's payload (spec §3).
type LegacyData struct {
	ChainID              uint64
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	GasLimit             uint64
	To                   *Address `rlp:"nil"`
	Value                *uint256.Int
	Data                 []byte
	AccessList           AccessList
	PublicKey            []byte
	Signature            []byte
}

// AAData is the AA transaction variant's payload (spec §3).
type AAData struct {
	ChainID              uint64
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	GasLimit             uint64
	Sender               Address
	Data                 []byte
	Paymaster            *Address `rlp:"nil"`
	Signature            []byte
	BuilderFee           *uint256.Int
}

// Transaction is the closed tagged variant over Legacy and AA (spec
// "Design Notes: Polymorphic transaction"). Every accessor below is a
// total function over the variant's projection.
type Transaction struct {
	typ    TxType
	legacy *LegacyData
	aa     *AAData

	hash *Hash // memoized
}

// NewLegacyTransaction wraps a LegacyData payload.
func NewLegacyTransaction(d *LegacyData) *Transaction {
	return &Transaction{typ: LegacyTxType, legacy: d}
}

// NewAATransaction wraps an AAData payload.
func NewAATransaction(d *AAData) *Transaction {
	return &Transaction{typ: AATxType, aa: d}
}

// Type reports which variant this transaction is.
func (tx *Transaction) Type() TxType { return tx.typ }

// IsAA reports whether this is an account-abstraction transaction.
func (tx *Transaction) IsAA() bool { return tx.typ == AATxType }

// Nonce is a total function over the variant's nonce.
func (tx *Transaction) Nonce() uint64 {
	if tx.IsAA() {
		return tx.aa.Nonce
	}
	return tx.legacy.Nonce
}

// ChainID is a total function over the variant's chain id.
func (tx *Transaction) ChainID() uint64 {
	if tx.IsAA() {
		return tx.aa.ChainID
	}
	return tx.legacy.ChainID
}

// GasLimit is a total function over the variant's gas limit.
func (tx *Transaction) GasLimit() uint64 {
	if tx.IsAA() {
		return tx.aa.GasLimit
	}
	return tx.legacy.GasLimit
}

// MaxFeePerGas is a total function over the variant's fee cap.
func (tx *Transaction) MaxFeePerGas() *uint256.Int {
	if tx.IsAA() {
		return tx.aa.MaxFeePerGas
	}
	return tx.legacy.MaxFeePerGas
}

// MaxPriorityFeePerGas is a total function over the variant's tip cap.
func (tx *Transaction) MaxPriorityFeePerGas() *uint256.Int {
	if tx.IsAA() {
		return tx.aa.MaxPriorityFeePerGas
	}
	return tx.legacy.MaxPriorityFeePerGas
}

// Data is a total function over the variant's calldata.
func (tx *Transaction) Data() []byte {
	if tx.IsAA() {
		return tx.aa.Data
	}
	return tx.legacy.Data
}

// Value is a total function over the variant's value; AA transactions
// carry no native value field distinct from calldata-driven transfers,
// so they report zero.
func (tx *Transaction) Value() *uint256.Int {
	if tx.IsAA() {
		return new(uint256.Int)
	}
	return tx.legacy.Value
}

// To returns the call target. AA's To aliases Sender for the EVM (spec
// "Design Notes").
func (tx *Transaction) To() *Address {
	if tx.IsAA() {
		s := tx.aa.Sender
		return &s
	}
	return tx.legacy.To
}

// Sender derives the transaction's sender. Legacy derives it from the
// embedded public key; AA carries it directly.
func (tx *Transaction) Sender() (Address, error) {
	if tx.IsAA() {
		return tx.aa.Sender, nil
	}
	if len(tx.legacy.PublicKey) == 0 {
		return Address{}, errors.New("types: legacy transaction has no public key")
	}
	return AddressFromPublicKey(tx.legacy.PublicKey)
}

// Signature returns the raw signature bytes for either variant.
func (tx *Transaction) Signature() []byte {
	if tx.IsAA() {
		return tx.aa.Signature
	}
	return tx.legacy.Signature
}

// Paymaster returns the AA paymaster, or nil for Legacy/unsponsored AA.
func (tx *Transaction) Paymaster() *Address {
	if tx.IsAA() {
		return tx.aa.Paymaster
	}
	return nil
}

// Legacy returns the Legacy payload, or nil if this is an AA transaction.
func (tx *Transaction) Legacy() *LegacyData { return tx.legacy }

// AA returns the AA payload, or nil if this is a Legacy transaction.
func (tx *Transaction) AA() *AAData { return tx.aa }

// sighashLegacy is the RLP-encodable projection of LegacyData signed over:
// every field except the signature itself.
type sighashLegacy struct {
	ChainID              uint64
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	GasLimit             uint64
	To                   *Address `rlp:"nil"`
	Value                *uint256.Int
	Data                 []byte
	AccessList           AccessList
	PublicKey            []byte
}

type sighashAA struct {
	ChainID              uint64
	Nonce                uint64
	MaxPriorityFeePerGas *uint256.Int
	MaxFeePerGas         *uint256.Int
	GasLimit             uint64
	Sender               Address
	Data                 []byte
	Paymaster            *Address `rlp:"nil"`
	BuilderFee           *uint256.Int
}

// Sighash returns the canonical hash a signer signs over: the
// transaction's content excluding its own signature (spec §3, §4.8).
func (tx *Transaction) Sighash() Hash {
	if tx.IsAA() {
		return HashData(&sighashAA{
			ChainID:              tx.aa.ChainID,
			Nonce:                tx.aa.Nonce,
			MaxPriorityFeePerGas: tx.aa.MaxPriorityFeePerGas,
			MaxFeePerGas:         tx.aa.MaxFeePerGas,
			GasLimit:             tx.aa.GasLimit,
			Sender:               tx.aa.Sender,
			Data:                 tx.aa.Data,
			Paymaster:            tx.aa.Paymaster,
			BuilderFee:           tx.aa.BuilderFee,
		})
	}
	return HashData(&sighashLegacy{
		ChainID:              tx.legacy.ChainID,
		Nonce:                tx.legacy.Nonce,
		MaxPriorityFeePerGas: tx.legacy.MaxPriorityFeePerGas,
		MaxFeePerGas:         tx.legacy.MaxFeePerGas,
		GasLimit:             tx.legacy.GasLimit,
		To:                   tx.legacy.To,
		Value:                tx.legacy.Value,
		Data:                 tx.legacy.Data,
		AccessList:           tx.legacy.AccessList,
		PublicKey:            tx.legacy.PublicKey,
	})
}

// Hash returns the full-transaction content hash (over every field,
// signature included); this is what the mempool keys entries by and what
// is reported to RPC callers (spec §4.8 step 4, scenario 7).
func (tx *Transaction) Hash() Hash {
	if tx.hash != nil {
		return *tx.hash
	}
	var h Hash
	if tx.IsAA() {
		h = HashData(tx.aa)
	} else {
		h = HashData(tx.legacy)
	}
	tx.hash = &h
	return h
}

// txEnvelope is the on-the-wire typed envelope: a type tag followed by
// the RLP-encoded inner payload, in the spirit of EIP-2718 typed
// transactions.
type txEnvelope struct {
	Type    byte
	Payload rlp.RawValue
}

// EncodeRLP implements rlp.Encoder.
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	var payload []byte
	var err error
	if tx.IsAA() {
		payload, err = rlp.EncodeToBytes(tx.aa)
	} else {
		payload, err = rlp.EncodeToBytes(tx.legacy)
	}
	if err != nil {
		return err
	}
	return rlp.Encode(w, &txEnvelope{Type: byte(tx.typ), Payload: payload})
}

// DecodeRLP implements rlp.Decoder.
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	var env txEnvelope
	if err := s.Decode(&env); err != nil {
		return err
	}
	switch TxType(env.Type) {
	case LegacyTxType:
		var d LegacyData
		if err := rlp.DecodeBytes(env.Payload, &d); err != nil {
			return err
		}
		tx.typ, tx.legacy, tx.aa = LegacyTxType, &d, nil
	case AATxType:
		var d AAData
		if err := rlp.DecodeBytes(env.Payload, &d); err != nil {
			return err
		}
		tx.typ, tx.legacy, tx.aa = AATxType, nil, &d
	default:
		return errors.New("types: unknown transaction type")
	}
	tx.hash = nil
	return nil
}
