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

package keeper

import (
	"context"
	"errors"
	"strconv"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/event"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"pools.meridian.xyz/types"
)

// IssueShares mints shares for a closed deposit epoch at the given share
// price. Epochs are issued strictly in order and each one exactly once; a
// zero price issues zero shares instead of erroring, leaving the approved
// capital recorded without a share match.
func (k *Keeper) IssueShares(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, epochID uint32, pricePoolPerShare math.LegacyDec) (math.Int, error) {
	zero := math.ZeroInt()

	class, err := k.shareClass(ctx, pool, shareClass)
	if err != nil {
		return zero, err
	}

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return zero, err
	}
	if epochID >= epochs.Deposit {
		return zero, sdkerrors.Wrapf(types.ErrEpochNotFound, "deposit epoch %d is still open", epochID)
	}
	if epochID != epochs.Issue+1 {
		return zero, sdkerrors.Wrapf(types.ErrEpochNotInSequence, "expected issuance for epoch %d, got %d", epochs.Issue+1, epochID)
	}

	record, err := k.EpochInvest.Get(ctx, collections.Join3(shareClass, asset, epochID))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return zero, sdkerrors.Wrapf(types.ErrEpochNotFound, "deposit epoch %d", epochID)
		}
		return zero, err
	}

	if err := k.guardEpochAdvance(ctx, shareClass, asset, types.EpochKindIssue, types.ErrAlreadyIssued); err != nil {
		return zero, err
	}

	shares := types.ConvertPoolToShares(record.ApprovedPoolAmount, pricePoolPerShare)

	record.IssuedShareAmount = shares
	record.PricePoolPerShare = pricePoolPerShare
	record.IssuedAt = k.header.GetHeaderInfo(ctx).Time.Unix()
	if err := k.EpochInvest.Set(ctx, collections.Join3(shareClass, asset, epochID), record); err != nil {
		return zero, err
	}

	class.TotalIssuance = class.TotalIssuance.Add(shares)
	if err := k.ShareClasses.Set(ctx, shareClass, class); err != nil {
		return zero, err
	}

	if err := k.queueShareIssuance(ctx, pool, shareClass, shares); err != nil {
		return zero, err
	}

	epochs.Issue = epochID
	if err := k.EpochIds.Set(ctx, collections.Join(shareClass, asset), epochs); err != nil {
		return zero, err
	}

	k.logger.Debug("issued shares", "share_class", shareClass, "asset", asset, "epoch", epochID, "shares", shares.String())

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeSharesIssued,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyEpoch, Value: strconv.FormatUint(uint64(epochID), 10)},
		event.Attribute{Key: types.AttributeKeyShares, Value: shares.String()},
		event.Attribute{Key: types.AttributeKeyPrice, Value: pricePoolPerShare.String()},
	)
	return shares, err
}

// RevokeShares burns the approved shares of a closed redemption epoch at the
// given share price, values the payout in asset units and moves it from the
// pool escrow to the pending escrow where users collect it via claims. A zero
// price revokes nothing; the approved shares stay with their owners and are
// handed back on the next claim.
func (k *Keeper) RevokeShares(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, epochID uint32, pricePoolPerShare math.LegacyDec) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	class, err := k.shareClass(ctx, pool, shareClass)
	if err != nil {
		return zero, zero, err
	}

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return zero, zero, err
	}
	if epochID >= epochs.Redeem {
		return zero, zero, sdkerrors.Wrapf(types.ErrEpochNotFound, "redeem epoch %d is still open", epochID)
	}
	if epochID != epochs.Revoke+1 {
		return zero, zero, sdkerrors.Wrapf(types.ErrEpochNotInSequence, "expected revocation for epoch %d, got %d", epochs.Revoke+1, epochID)
	}

	record, err := k.EpochRedeem.Get(ctx, collections.Join3(shareClass, asset, epochID))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return zero, zero, sdkerrors.Wrapf(types.ErrEpochNotFound, "redeem epoch %d", epochID)
		}
		return zero, zero, err
	}

	if err := k.guardEpochAdvance(ctx, shareClass, asset, types.EpochKindRevoke, types.ErrAlreadyRevoked); err != nil {
		return zero, zero, err
	}

	revoked := math.ZeroInt()
	payout := math.ZeroInt()
	if !pricePoolPerShare.IsNil() && pricePoolPerShare.IsPositive() {
		revoked = record.ApprovedShareAmount
		poolAmount := types.ConvertSharesToPool(revoked, pricePoolPerShare)
		payout = types.ConvertPoolToAsset(poolAmount, record.PricePoolPerAsset)
	}

	record.RevokedShareAmount = revoked
	record.PayoutAssetAmount = payout
	record.PricePoolPerShare = pricePoolPerShare
	record.RevokedAt = k.header.GetHeaderInfo(ctx).Time.Unix()
	if err := k.EpochRedeem.Set(ctx, collections.Join3(shareClass, asset, epochID), record); err != nil {
		return zero, zero, err
	}

	class.TotalIssuance = class.TotalIssuance.Sub(revoked)
	if err := k.ShareClasses.Set(ctx, shareClass, class); err != nil {
		return zero, zero, err
	}

	if payout.IsPositive() {
		if err := k.decreaseHolding(ctx, pool, shareClass, asset, payout); err != nil {
			return zero, zero, err
		}
		if err := k.escrow.Transfer(ctx, types.PoolEscrowAddress(pool), types.PendingEscrowAddress(pool), asset, payout); err != nil {
			return zero, zero, err
		}
		if err := k.queueAssetWithdrawal(ctx, pool, shareClass, asset, payout); err != nil {
			return zero, zero, err
		}
	}
	if err := k.queueShareRevocation(ctx, pool, shareClass, revoked); err != nil {
		return zero, zero, err
	}

	epochs.Revoke = epochID
	if err := k.EpochIds.Set(ctx, collections.Join(shareClass, asset), epochs); err != nil {
		return zero, zero, err
	}

	k.logger.Debug("revoked shares", "share_class", shareClass, "asset", asset, "epoch", epochID, "shares", revoked.String(), "payout", payout.String())

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeSharesRevoked,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyEpoch, Value: strconv.FormatUint(uint64(epochID), 10)},
		event.Attribute{Key: types.AttributeKeyShares, Value: revoked.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: payout.String()},
		event.Attribute{Key: types.AttributeKeyPrice, Value: pricePoolPerShare.String()},
	)
	return revoked, payout, err
}
