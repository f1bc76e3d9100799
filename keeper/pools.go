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

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"pools.meridian.xyz/types"
)

// CreatePool registers a new pool denominated in the given currency.
func (k *Keeper) CreatePool(ctx context.Context, pool types.PoolId, currency string) error {
	exists, err := k.Pools.Has(ctx, pool)
	if err != nil {
		return err
	}
	if exists {
		return sdkerrors.Wrapf(types.ErrPoolAlreadyExists, "pool %d", pool)
	}

	record := types.Pool{
		Currency:  currency,
		CreatedAt: k.header.GetHeaderInfo(ctx).Time.Unix(),
	}

	return k.Pools.Set(ctx, pool, record)
}

// AddShareClass attaches a new share class to an existing pool.
func (k *Keeper) AddShareClass(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId) error {
	exists, err := k.Pools.Has(ctx, pool)
	if err != nil {
		return err
	}
	if !exists {
		return sdkerrors.Wrapf(types.ErrPoolNotFound, "pool %d", pool)
	}

	if _, err := k.ShareClasses.Get(ctx, shareClass); err == nil {
		return sdkerrors.Wrapf(types.ErrShareClassExists, "share class %d", shareClass)
	} else if !errors.Is(err, collections.ErrNotFound) {
		return err
	}

	return k.ShareClasses.Set(ctx, shareClass, types.ShareClass{
		PoolId:        pool,
		TotalIssuance: math.ZeroInt(),
	})
}

// shareClass fetches a share class and verifies it belongs to the given pool.
func (k *Keeper) shareClass(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId) (types.ShareClass, error) {
	record, err := k.ShareClasses.Get(ctx, shareClass)
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.ShareClass{}, sdkerrors.Wrapf(types.ErrShareClassNotFound, "share class %d", shareClass)
		}
		return types.ShareClass{}, err
	}
	if record.PoolId != pool {
		return types.ShareClass{}, sdkerrors.Wrapf(types.ErrShareClassNotFound, "share class %d does not belong to pool %d", shareClass, pool)
	}

	return record, nil
}

// TotalIssuance returns the outstanding share supply of a share class.
func (k *Keeper) TotalIssuance(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId) (math.Int, error) {
	record, err := k.shareClass(ctx, pool, shareClass)
	if err != nil {
		return math.ZeroInt(), err
	}
	return record.TotalIssuance, nil
}

// GetEpochIds returns the epoch counters for a (shareClass, asset) pair,
// falling back to the initial counters when the pair has never been approved.
func (k *Keeper) GetEpochIds(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId) (types.EpochIds, error) {
	epochs, err := k.EpochIds.Get(ctx, collections.Join(shareClass, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.DefaultEpochIds(), nil
		}
		return types.EpochIds{}, err
	}

	return epochs, nil
}

// GetPendingDeposit returns the open epoch's global pending deposit total.
func (k *Keeper) GetPendingDeposit(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId) (math.Int, error) {
	pending, err := k.PendingDeposits.Get(ctx, collections.Join(shareClass, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), err
	}

	return pending, nil
}

// GetPendingRedeem returns the open epoch's global pending redemption total.
func (k *Keeper) GetPendingRedeem(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId) (math.Int, error) {
	pending, err := k.PendingRedeems.Get(ctx, collections.Join(shareClass, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), err
	}

	return pending, nil
}

// GetUserShares returns a user's share balance for a share class.
func (k *Keeper) GetUserShares(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, user sdk.AccAddress) (math.Int, error) {
	shares, err := k.UserShares.Get(ctx, collections.Join3(pool, shareClass, []byte(user)))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return math.ZeroInt(), nil
		}
		return math.ZeroInt(), err
	}

	return shares, nil
}

// setUserShares writes a user's share balance, pruning zero entries.
func (k *Keeper) setUserShares(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, user sdk.AccAddress, shares math.Int) error {
	key := collections.Join3(pool, shareClass, []byte(user))
	if shares.IsZero() {
		err := k.UserShares.Remove(ctx, key)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return err
		}
		return nil
	}
	return k.UserShares.Set(ctx, key, shares)
}
