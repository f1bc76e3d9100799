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

// guardEpochAdvance enforces that an epoch counter advances at most once per
// administrative batch. A batch is one block; the height of the last advance
// is kept per (shareClass, asset, counter).
func (k *Keeper) guardEpochAdvance(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, kind uint16, already error) error {
	height := k.header.GetHeaderInfo(ctx).Height
	key := collections.Join3(shareClass, asset, kind)

	last, err := k.EpochAdvances.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return err
		}
	} else if last == height {
		return already
	}

	return k.EpochAdvances.Set(ctx, key, height)
}

// ApproveDeposits closes the open deposit epoch: it snapshots the pending
// total, approves up to maxApproval of it at the given asset price, moves the
// approved assets from the pending escrow into the pool escrow and advances
// the deposit counter by exactly 1. The un-approved remainder stays pending
// and rolls into the next epoch automatically.
func (k *Keeper) ApproveDeposits(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, maxApproval math.Int, pricePoolPerAsset math.LegacyDec) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	if maxApproval.IsNil() || !maxApproval.IsPositive() {
		return zero, zero, types.ErrZeroAmount
	}
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return zero, zero, err
	}
	if _, err := k.GetHolding(ctx, pool, shareClass, asset); err != nil {
		return zero, zero, err
	}

	pendingTotal, err := k.GetPendingDeposit(ctx, shareClass, asset)
	if err != nil {
		return zero, zero, err
	}
	if pendingTotal.IsZero() {
		return zero, zero, sdkerrors.Wrap(types.ErrZeroAmount, "no pending deposits")
	}

	if err := k.guardEpochAdvance(ctx, shareClass, asset, types.EpochKindDeposit, types.ErrAlreadyApproved); err != nil {
		return zero, zero, err
	}

	approved := math.MinInt(maxApproval, pendingTotal)
	approvedPool := types.ConvertAssetToPool(approved, pricePoolPerAsset)

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return zero, zero, err
	}

	record := types.EpochInvestAmounts{
		PendingAssetAmount:  pendingTotal,
		ApprovedAssetAmount: approved,
		ApprovedPoolAmount:  approvedPool,
		IssuedShareAmount:   math.ZeroInt(),
		PricePoolPerAsset:   pricePoolPerAsset,
		PricePoolPerShare:   math.LegacyZeroDec(),
	}
	if err := k.EpochInvest.Set(ctx, collections.Join3(shareClass, asset, epochs.Deposit), record); err != nil {
		return zero, zero, err
	}

	if err := k.PendingDeposits.Set(ctx, collections.Join(shareClass, asset), pendingTotal.Sub(approved)); err != nil {
		return zero, zero, err
	}

	if err := k.escrow.Transfer(ctx, types.PendingEscrowAddress(pool), types.PoolEscrowAddress(pool), asset, approved); err != nil {
		return zero, zero, err
	}
	if err := k.increaseHolding(ctx, pool, shareClass, asset, pricePoolPerAsset, approved); err != nil {
		return zero, zero, err
	}
	if err := k.queueAssetDeposit(ctx, pool, shareClass, asset, approved); err != nil {
		return zero, zero, err
	}

	closed := epochs.Deposit
	epochs.Deposit++
	if err := k.EpochIds.Set(ctx, collections.Join(shareClass, asset), epochs); err != nil {
		return zero, zero, err
	}

	k.logger.Debug("approved deposits", "share_class", shareClass, "asset", asset, "epoch", closed, "approved", approved.String())

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositsApproved,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyEpoch, Value: strconv.FormatUint(uint64(closed), 10)},
		event.Attribute{Key: types.AttributeKeyAmount, Value: approved.String()},
		event.Attribute{Key: types.AttributeKeyPrice, Value: pricePoolPerAsset.String()},
	)
	return approved, approvedPool, err
}

// ApproveRedeems closes the open redeem epoch, approving up to maxApproval of
// the pending share total at the given asset price. Shares stay locked in the
// ledger until revocation; no escrow movement happens here.
func (k *Keeper) ApproveRedeems(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, maxApproval math.Int, pricePoolPerAsset math.LegacyDec) (math.Int, error) {
	zero := math.ZeroInt()

	if maxApproval.IsNil() || !maxApproval.IsPositive() {
		return zero, types.ErrZeroAmount
	}
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return zero, err
	}
	if _, err := k.GetHolding(ctx, pool, shareClass, asset); err != nil {
		return zero, err
	}

	pendingTotal, err := k.GetPendingRedeem(ctx, shareClass, asset)
	if err != nil {
		return zero, err
	}
	if pendingTotal.IsZero() {
		return zero, sdkerrors.Wrap(types.ErrZeroAmount, "no pending redemptions")
	}

	if err := k.guardEpochAdvance(ctx, shareClass, asset, types.EpochKindRedeem, types.ErrAlreadyApproved); err != nil {
		return zero, err
	}

	approved := math.MinInt(maxApproval, pendingTotal)

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return zero, err
	}

	record := types.EpochRedeemAmounts{
		PendingShareAmount:  pendingTotal,
		ApprovedShareAmount: approved,
		RevokedShareAmount:  math.ZeroInt(),
		PayoutAssetAmount:   math.ZeroInt(),
		PricePoolPerAsset:   pricePoolPerAsset,
		PricePoolPerShare:   math.LegacyZeroDec(),
	}
	if err := k.EpochRedeem.Set(ctx, collections.Join3(shareClass, asset, epochs.Redeem), record); err != nil {
		return zero, err
	}

	if err := k.PendingRedeems.Set(ctx, collections.Join(shareClass, asset), pendingTotal.Sub(approved)); err != nil {
		return zero, err
	}

	closed := epochs.Redeem
	epochs.Redeem++
	if err := k.EpochIds.Set(ctx, collections.Join(shareClass, asset), epochs); err != nil {
		return zero, err
	}

	k.logger.Debug("approved redemptions", "share_class", shareClass, "asset", asset, "epoch", closed, "approved", approved.String())

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemsApproved,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyEpoch, Value: strconv.FormatUint(uint64(closed), 10)},
		event.Attribute{Key: types.AttributeKeyShares, Value: approved.String()},
		event.Attribute{Key: types.AttributeKeyPrice, Value: pricePoolPerAsset.String()},
	)
	return approved, err
}
