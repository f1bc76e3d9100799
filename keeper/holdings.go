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

// InitializeHolding creates the holding record for (pool, shareClass, asset)
// together with its four double-entry accounts.
func (k *Keeper) InitializeHolding(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, price math.LegacyDec, accounts types.HoldingAccounts) error {
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return err
	}

	key := collections.Join3(pool, shareClass, asset)
	has, err := k.Holdings.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return sdkerrors.Wrapf(types.ErrHoldingAlreadyExists, "holding (%d, %d, %d)", pool, shareClass, asset)
	}

	for _, account := range []struct {
		id   types.AccountId
		kind types.AccountKind
	}{
		{accounts.Asset, types.AccountKindAsset},
		{accounts.Equity, types.AccountKindEquity},
		{accounts.Gain, types.AccountKindGain},
		{accounts.Loss, types.AccountKindLoss},
	} {
		if err := k.CreateAccount(ctx, pool, account.id, account.kind); err != nil {
			return err
		}
	}

	if err := k.HoldingAccounts.Set(ctx, key, accounts); err != nil {
		return err
	}

	return k.Holdings.Set(ctx, key, types.Holding{
		AssetAmount:  math.ZeroInt(),
		Value:        math.ZeroInt(),
		PricePerUnit: price,
	})
}

// GetHolding returns the holding record for (pool, shareClass, asset).
func (k *Keeper) GetHolding(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId) (types.Holding, error) {
	holding, err := k.Holdings.Get(ctx, collections.Join3(pool, shareClass, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.Holding{}, sdkerrors.Wrapf(types.ErrHoldingNotFound, "holding (%d, %d, %d)", pool, shareClass, asset)
		}
		return types.Holding{}, err
	}

	return holding, nil
}

// getHoldingAccounts returns the account group backing a holding.
func (k *Keeper) getHoldingAccounts(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId) (types.HoldingAccounts, error) {
	accounts, err := k.HoldingAccounts.Get(ctx, collections.Join3(pool, shareClass, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.HoldingAccounts{}, sdkerrors.Wrapf(types.ErrHoldingNotFound, "holding accounts (%d, %d, %d)", pool, shareClass, asset)
		}
		return types.HoldingAccounts{}, err
	}

	return accounts, nil
}

// increaseHolding books an asset inflow at the given price: the holding grows
// by the amount and its truncated valuation, matched by an equity credit.
func (k *Keeper) increaseHolding(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, price math.LegacyDec, amount math.Int) error {
	holding, err := k.GetHolding(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}
	accounts, err := k.getHoldingAccounts(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}

	value := types.ConvertAssetToPool(amount, price)
	holding.AssetAmount = holding.AssetAmount.Add(amount)
	holding.Value = holding.Value.Add(value)
	holding.PricePerUnit = price

	if err := k.Holdings.Set(ctx, collections.Join3(pool, shareClass, asset), holding); err != nil {
		return err
	}

	return k.postDouble(ctx, pool, accounts.Asset, accounts.Equity, value)
}

// decreaseHolding books an asset outflow valued at the holding's recorded
// price, matched by an equity debit.
func (k *Keeper) decreaseHolding(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, amount math.Int) error {
	holding, err := k.GetHolding(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}
	accounts, err := k.getHoldingAccounts(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}

	value := types.ConvertAssetToPool(amount, holding.PricePerUnit)
	if value.GT(holding.Value) {
		value = holding.Value
	}
	holding.AssetAmount = holding.AssetAmount.Sub(amount)
	holding.Value = holding.Value.Sub(value)

	if err := k.Holdings.Set(ctx, collections.Join3(pool, shareClass, asset), holding); err != nil {
		return err
	}

	return k.postDouble(ctx, pool, accounts.Equity, accounts.Asset, value)
}

// UpdateHoldingValue revalues the holding at a new price. A positive
// difference posts a gain, a negative one a loss, keeping
// asset == equity + gain - loss intact.
func (k *Keeper) UpdateHoldingValue(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, newPrice math.LegacyDec) error {
	holding, err := k.GetHolding(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}
	accounts, err := k.getHoldingAccounts(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}

	newValue := types.ConvertAssetToPool(holding.AssetAmount, newPrice)
	diff := newValue.Sub(holding.Value)
	holding.Value = newValue
	holding.PricePerUnit = newPrice

	if err := k.Holdings.Set(ctx, collections.Join3(pool, shareClass, asset), holding); err != nil {
		return err
	}

	if diff.IsPositive() {
		if err := k.postDouble(ctx, pool, accounts.Asset, accounts.Gain, diff); err != nil {
			return err
		}
	} else if diff.IsNegative() {
		if err := k.postDouble(ctx, pool, accounts.Loss, accounts.Asset, diff.Neg()); err != nil {
			return err
		}
	}

	return k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeHoldingRevalued,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyPrice, Value: newPrice.String()},
	)
}

// ReconcileHolding asserts that the holding's recorded asset amount matches
// the escrow balance backing it. The relationship is undefined while the
// recorded price is zero, so the check is skipped rather than failed. A
// mismatch is an invariant violation, never a recoverable runtime condition.
func (k *Keeper) ReconcileHolding(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId) error {
	holding, err := k.GetHolding(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}
	if holding.PricePerUnit.IsNil() || holding.PricePerUnit.IsZero() {
		return nil
	}

	balance := k.escrow.Balance(ctx, types.PoolEscrowAddress(pool), asset)
	if !holding.AssetAmount.Equal(balance) {
		return sdkerrors.Wrapf(types.ErrHoldingEscrowMismatch, "holding (%d, %d, %d) records %s, escrow holds %s", pool, shareClass, asset, holding.AssetAmount, balance)
	}

	return nil
}
