// SPDX-License-Identifier: BUSL-1.1
//
// Copyright (C) 2025, NASD Inc. All rights reserved.
// Use of this software is governed by the Business Source License included
// in the LICENSE file of this repository and at www.mariadb.com/bsl11.
//
// ANY USE OF THE LICENSED WORK IN VIOLATION OF THIS LICENSE WILL AUTOMATICALLY
// TERMINATE YOUR RIGHTS UNDER THIS LICENSE FOR THE CURRENT AND ALL OTHER
// VERSIONS OF THE LICENSED WORK.
//
// THIS LICENSE DOES NOT GRANT YOU ANY RIGHT IN ANY TRADEMARK OR LOGO OF
// LICENSOR OR ITS AFFILIATES (PROVIDED THAT YOU MAY USE A TRADEMARK OR LOGO OF
// LICENSOR AS EXPRESSLY REQUIRED BY THIS LICENSE).
//
// TO THE EXTENT PERMITTED BY APPLICABLE LAW, THE LICENSED WORK IS PROVIDED ON
// AN "AS IS" BASIS. LICENSOR HEREBY DISCLAIMS ALL WARRANTIES AND CONDITIONS,
// EXPRESS OR IMPLIED, INCLUDING (WITHOUT LIMITATION) WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE, NON-INFRINGEMENT, AND
// TITLE.

package types

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"cosmossdk.io/math"
)

// SignedDelta is an unsigned magnitude plus a sign flag, used to net opposing
// issue/revoke amounts within a batching window. Invariant: a zero magnitude
// always carries IsPositive == false.
type SignedDelta struct {
	Amount     math.Int
	IsPositive bool
}

// ZeroDelta returns the empty net position.
func ZeroDelta() SignedDelta {
	return SignedDelta{Amount: math.ZeroInt(), IsPositive: false}
}

// Increase nets a positive operation of the given magnitude into the delta.
// An opposing (negative) delta is consumed first; the sign flips once the
// operation magnitude exceeds the outstanding delta.
func (d SignedDelta) Increase(amount math.Int) SignedDelta {
	if amount.IsNil() || amount.IsZero() {
		return d
	}
	switch {
	case d.IsPositive:
		return SignedDelta{Amount: d.Amount.Add(amount), IsPositive: true}
	case d.Amount.IsZero():
		return SignedDelta{Amount: amount, IsPositive: true}
	case amount.LT(d.Amount):
		return SignedDelta{Amount: d.Amount.Sub(amount), IsPositive: false}
	case amount.Equal(d.Amount):
		return ZeroDelta()
	default:
		return SignedDelta{Amount: amount.Sub(d.Amount), IsPositive: true}
	}
}

// Decrease nets a negative operation of the given magnitude into the delta.
func (d SignedDelta) Decrease(amount math.Int) SignedDelta {
	if amount.IsNil() || amount.IsZero() {
		return d
	}
	switch {
	case !d.IsPositive:
		return SignedDelta{Amount: d.Amount.Add(amount), IsPositive: false}
	case amount.LT(d.Amount):
		return SignedDelta{Amount: d.Amount.Sub(amount), IsPositive: true}
	case amount.Equal(d.Amount):
		return ZeroDelta()
	default:
		return SignedDelta{Amount: amount.Sub(d.Amount), IsPositive: false}
	}
}

// QueuedShares is the per (pool, shareClass) net share position awaiting
// submission, plus the count of assets with non-zero queued flows and the
// submission nonce. The nonce never decreases and strictly increases on each
// submission.
type QueuedShares struct {
	Delta              math.Int
	IsPositive         bool
	QueuedAssetCounter uint32
	Nonce              uint64
}

// ZeroQueuedShares returns an empty queue record carrying the given nonce.
func ZeroQueuedShares(nonce uint64) QueuedShares {
	return QueuedShares{Delta: math.ZeroInt(), IsPositive: false, QueuedAssetCounter: 0, Nonce: nonce}
}

// SignedDelta exposes the record's net position for flip arithmetic.
func (q QueuedShares) SignedDelta() SignedDelta {
	return SignedDelta{Amount: q.Delta, IsPositive: q.IsPositive}
}

// QueuedAssets tracks the batched deposit and withdrawal flows of a single
// asset within the current submission window.
type QueuedAssets struct {
	Deposits    math.Int
	Withdrawals math.Int
}

// ZeroQueuedAssets returns an empty per-asset queue record.
func ZeroQueuedAssets() QueuedAssets {
	return QueuedAssets{Deposits: math.ZeroInt(), Withdrawals: math.ZeroInt()}
}

// IsZero reports whether no flows are queued for the asset.
func (q QueuedAssets) IsZero() bool {
	return q.Deposits.IsZero() && q.Withdrawals.IsZero()
}

// SubmissionAsset is one per-asset entry of a queue submission.
type SubmissionAsset struct {
	Asset       AssetId
	Deposits    math.Int
	Withdrawals math.Int
}

// Submission is the netted balance-sheet record handed to the transport
// collaborator when a batching window closes.
type Submission struct {
	Pool       PoolId
	ShareClass ShareClassId
	Delta      math.Int
	IsPositive bool
	Nonce      uint64
	Assets     []SubmissionAsset
}

const (
	submissionMessageType = 0x02
	submissionHeaderSize  = 1 + 8 + 8 + 16 + 1 + 8 + 4
	submissionAssetSize   = 8 + 16 + 16
	submissionAmountBytes = 16
)

func putUint128(dst []byte, v math.Int) error {
	if v.IsNegative() {
		return fmt.Errorf("amount %s is negative", v)
	}
	bz := v.BigInt().Bytes()
	if len(bz) > submissionAmountBytes {
		return fmt.Errorf("amount %s exceeds 128 bits", v)
	}
	copy(dst[submissionAmountBytes-len(bz):], bz)
	return nil
}

func readUint128(src []byte) math.Int {
	return math.NewIntFromBigInt(new(big.Int).SetBytes(src[:submissionAmountBytes]))
}

// EncodeSubmission serializes a submission into the fixed-layout big-endian
// wire form consumed by the transport collaborator.
func EncodeSubmission(s Submission) ([]byte, error) {
	body := make([]byte, submissionHeaderSize+len(s.Assets)*submissionAssetSize)
	body[0] = submissionMessageType
	binary.BigEndian.PutUint64(body[1:9], s.Pool)
	binary.BigEndian.PutUint64(body[9:17], s.ShareClass)
	if err := putUint128(body[17:33], s.Delta); err != nil {
		return nil, err
	}
	if s.IsPositive {
		body[33] = 1
	}
	binary.BigEndian.PutUint64(body[34:42], s.Nonce)
	binary.BigEndian.PutUint32(body[42:46], uint32(len(s.Assets)))

	offset := submissionHeaderSize
	for _, entry := range s.Assets {
		binary.BigEndian.PutUint64(body[offset:offset+8], entry.Asset)
		if err := putUint128(body[offset+8:offset+24], entry.Deposits); err != nil {
			return nil, err
		}
		if err := putUint128(body[offset+24:offset+40], entry.Withdrawals); err != nil {
			return nil, err
		}
		offset += submissionAssetSize
	}

	return body, nil
}

// DecodeSubmission parses the wire form produced by EncodeSubmission.
func DecodeSubmission(body []byte) (Submission, error) {
	if len(body) < submissionHeaderSize {
		return Submission{}, fmt.Errorf("invalid submission payload size %d", len(body))
	}
	if body[0] != submissionMessageType {
		return Submission{}, fmt.Errorf("invalid submission message type 0x%02x", body[0])
	}

	count := binary.BigEndian.Uint32(body[42:46])
	expected := submissionHeaderSize + int(count)*submissionAssetSize
	if len(body) != expected {
		return Submission{}, fmt.Errorf("invalid submission payload size: expected %d, got %d", expected, len(body))
	}

	s := Submission{
		Pool:       binary.BigEndian.Uint64(body[1:9]),
		ShareClass: binary.BigEndian.Uint64(body[9:17]),
		Delta:      readUint128(body[17:33]),
		IsPositive: body[33] == 1,
		Nonce:      binary.BigEndian.Uint64(body[34:42]),
	}
	if s.Delta.IsZero() && s.IsPositive {
		return Submission{}, fmt.Errorf("zero delta must not be positive")
	}

	offset := submissionHeaderSize
	for i := uint32(0); i < count; i++ {
		s.Assets = append(s.Assets, SubmissionAsset{
			Asset:       binary.BigEndian.Uint64(body[offset : offset+8]),
			Deposits:    readUint128(body[offset+8 : offset+24]),
			Withdrawals: readUint128(body[offset+24 : offset+40]),
		})
		offset += submissionAssetSize
	}

	return s, nil
}
