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
	"cosmossdk.io/math"
)

// Pool is the registry entry for a tokenized pool.
type Pool struct {
	Currency  string
	CreatedAt int64
}

// ShareClass ties a share class to its pool and tracks the outstanding share
// supply across all assets of the class.
type ShareClass struct {
	PoolId        PoolId
	TotalIssuance math.Int
}

// EpochIds holds the four independent epoch counters per (shareClass, asset).
// Deposit and Redeem identify the currently open epoch and start at 1;
// Issue and Revoke identify the last closed epoch and start at 0. Each counter
// only increases, by at most 1 per administrative batch.
type EpochIds struct {
	Deposit uint32
	Issue   uint32
	Redeem  uint32
	Revoke  uint32
}

// DefaultEpochIds returns the counters of a (shareClass, asset) pair that has
// never been through an approval.
func DefaultEpochIds() EpochIds {
	return EpochIds{Deposit: 1, Issue: 0, Redeem: 1, Revoke: 0}
}

// EpochInvestAmounts is the immutable record of a closed deposit epoch.
// PendingAssetAmount snapshots the global pending total at approval time;
// issuance later stamps the share price, the issued share amount and the
// issuance timestamp exactly once.
type EpochInvestAmounts struct {
	PendingAssetAmount  math.Int
	ApprovedAssetAmount math.Int
	ApprovedPoolAmount  math.Int
	IssuedShareAmount   math.Int
	PricePoolPerAsset   math.LegacyDec
	PricePoolPerShare   math.LegacyDec
	IssuedAt            int64
}

// EpochRedeemAmounts is the symmetric record for a closed redemption epoch.
type EpochRedeemAmounts struct {
	PendingShareAmount  math.Int
	ApprovedShareAmount math.Int
	RevokedShareAmount  math.Int
	PayoutAssetAmount   math.Int
	PricePoolPerAsset   math.LegacyDec
	PricePoolPerShare   math.LegacyDec
	RevokedAt           int64
}

// UserOrder is a user's pending request for a (shareClass, asset) pair.
// LastUpdate points at the first epoch the pending amount has not been
// claimed for.
type UserOrder struct {
	Pending    math.Int
	LastUpdate uint32
}

// QueuedOrder stages a request (or a cancellation) that arrived while the
// user's pending amount was already locked into an approved epoch. It folds
// into the open epoch once the user has claimed through all closed epochs.
type QueuedOrder struct {
	IsCancelling bool
	Amount       math.Int
}

// IsEmpty reports whether the queued order carries no staged state.
func (q QueuedOrder) IsEmpty() bool {
	return !q.IsCancelling && (q.Amount.IsNil() || q.Amount.IsZero())
}

// ConvertAssetToPool converts an asset amount into pool currency at the given
// price, truncating towards zero.
func ConvertAssetToPool(amount math.Int, pricePoolPerAsset math.LegacyDec) math.Int {
	if pricePoolPerAsset.IsNil() || !pricePoolPerAsset.IsPositive() {
		return math.ZeroInt()
	}
	return pricePoolPerAsset.MulInt(amount).TruncateInt()
}

// ConvertPoolToShares converts a pool currency amount into shares at the given
// pool-per-share price, truncating towards zero. A zero price converts to
// zero shares rather than erroring.
func ConvertPoolToShares(poolAmount math.Int, pricePoolPerShare math.LegacyDec) math.Int {
	if pricePoolPerShare.IsNil() || !pricePoolPerShare.IsPositive() {
		return math.ZeroInt()
	}
	return math.LegacyNewDecFromInt(poolAmount).Quo(pricePoolPerShare).TruncateInt()
}

// ConvertSharesToPool converts a share amount into pool currency, truncating
// towards zero. Truncation here rounds the implied per-share price up, so
// aggregate redemption capacity is never overstated.
func ConvertSharesToPool(shares math.Int, pricePoolPerShare math.LegacyDec) math.Int {
	if pricePoolPerShare.IsNil() || !pricePoolPerShare.IsPositive() {
		return math.ZeroInt()
	}
	return pricePoolPerShare.MulInt(shares).TruncateInt()
}

// ConvertPoolToAsset converts a pool currency amount into asset units at the
// given pool-per-asset price, truncating towards zero.
func ConvertPoolToAsset(poolAmount math.Int, pricePoolPerAsset math.LegacyDec) math.Int {
	if pricePoolPerAsset.IsNil() || !pricePoolPerAsset.IsPositive() {
		return math.ZeroInt()
	}
	return math.LegacyNewDecFromInt(poolAmount).Quo(pricePoolPerAsset).TruncateInt()
}

// ProRata computes floor(amount * numerator / denominator). A zero or nil
// denominator yields zero. The floor guarantees the sum of all per-user
// allocations never exceeds the epoch total.
func ProRata(amount, numerator, denominator math.Int) math.Int {
	if denominator.IsNil() || denominator.IsZero() {
		return math.ZeroInt()
	}
	return amount.Mul(numerator).Quo(denominator)
}
