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

// GetQueuedShares returns the net share position awaiting submission for a
// (pool, shareClass) pair.
func (k *Keeper) GetQueuedShares(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId) (types.QueuedShares, error) {
	record, err := k.QueuedShares.Get(ctx, collections.Join(pool, shareClass))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.ZeroQueuedShares(0), nil
		}
		return types.QueuedShares{}, err
	}

	return record, nil
}

// GetQueuedAssets returns the queued asset flows for (pool, shareClass, asset).
func (k *Keeper) GetQueuedAssets(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId) (types.QueuedAssets, error) {
	record, err := k.QueuedAssets.Get(ctx, collections.Join3(pool, shareClass, asset))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.ZeroQueuedAssets(), nil
		}
		return types.QueuedAssets{}, err
	}

	return record, nil
}

// queueShareIssuance nets newly issued shares into the queued delta.
func (k *Keeper) queueShareIssuance(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, shares math.Int) error {
	if shares.IsNil() || shares.IsZero() {
		return nil
	}

	record, err := k.GetQueuedShares(ctx, pool, shareClass)
	if err != nil {
		return err
	}

	delta := record.SignedDelta().Increase(shares)
	record.Delta = delta.Amount
	record.IsPositive = delta.IsPositive

	return k.QueuedShares.Set(ctx, collections.Join(pool, shareClass), record)
}

// queueShareRevocation nets newly revoked shares into the queued delta.
func (k *Keeper) queueShareRevocation(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, shares math.Int) error {
	if shares.IsNil() || shares.IsZero() {
		return nil
	}

	record, err := k.GetQueuedShares(ctx, pool, shareClass)
	if err != nil {
		return err
	}

	delta := record.SignedDelta().Decrease(shares)
	record.Delta = delta.Amount
	record.IsPositive = delta.IsPositive

	return k.QueuedShares.Set(ctx, collections.Join(pool, shareClass), record)
}

// queueAssetDeposit adds an approved asset inflow to the per-asset queue,
// bumping the asset counter when the asset record transitions from empty.
func (k *Keeper) queueAssetDeposit(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}

	record, err := k.GetQueuedAssets(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}
	wasZero := record.IsZero()
	record.Deposits = record.Deposits.Add(amount)

	if err := k.QueuedAssets.Set(ctx, collections.Join3(pool, shareClass, asset), record); err != nil {
		return err
	}
	if wasZero {
		return k.bumpQueuedAssetCounter(ctx, pool, shareClass)
	}
	return nil
}

// queueAssetWithdrawal adds a revocation payout to the per-asset queue.
func (k *Keeper) queueAssetWithdrawal(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}

	record, err := k.GetQueuedAssets(ctx, pool, shareClass, asset)
	if err != nil {
		return err
	}
	wasZero := record.IsZero()
	record.Withdrawals = record.Withdrawals.Add(amount)

	if err := k.QueuedAssets.Set(ctx, collections.Join3(pool, shareClass, asset), record); err != nil {
		return err
	}
	if wasZero {
		return k.bumpQueuedAssetCounter(ctx, pool, shareClass)
	}
	return nil
}

func (k *Keeper) bumpQueuedAssetCounter(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId) error {
	record, err := k.GetQueuedShares(ctx, pool, shareClass)
	if err != nil {
		return err
	}
	record.QueuedAssetCounter++
	return k.QueuedShares.Set(ctx, collections.Join(pool, shareClass), record)
}

// SubmitQueuedShares closes the batching window for a (pool, shareClass)
// pair: it drains all queued asset flows together with the netted share
// delta into a single submission carrying a strictly increasing nonce, and
// resets the queue. Submitting an empty queue is an error.
func (k *Keeper) SubmitQueuedShares(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId) (types.Submission, error) {
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return types.Submission{}, err
	}

	record, err := k.GetQueuedShares(ctx, pool, shareClass)
	if err != nil {
		return types.Submission{}, err
	}
	if record.Delta.IsZero() && record.QueuedAssetCounter == 0 {
		return types.Submission{}, sdkerrors.Wrap(types.ErrZeroAmount, "nothing queued for submission")
	}

	iterator, err := k.QueuedAssets.Iterate(ctx, collections.NewSuperPrefixedTripleRange[uint64, uint64, uint64](pool, shareClass))
	if err != nil {
		return types.Submission{}, err
	}
	entries, err := iterator.KeyValues()
	iterator.Close()
	if err != nil {
		return types.Submission{}, err
	}

	submission := types.Submission{
		Pool:       pool,
		ShareClass: shareClass,
		Delta:      record.Delta,
		IsPositive: record.IsPositive,
		Nonce:      record.Nonce + 1,
	}
	for _, entry := range entries {
		submission.Assets = append(submission.Assets, types.SubmissionAsset{
			Asset:       entry.Key.K3(),
			Deposits:    entry.Value.Deposits,
			Withdrawals: entry.Value.Withdrawals,
		})
		if err := k.QueuedAssets.Remove(ctx, entry.Key); err != nil {
			return types.Submission{}, err
		}
	}

	if err := k.QueuedShares.Set(ctx, collections.Join(pool, shareClass), types.ZeroQueuedShares(submission.Nonce)); err != nil {
		return types.Submission{}, err
	}

	k.logger.Debug("submitted queue", "pool", pool, "share_class", shareClass, "nonce", submission.Nonce, "assets", len(submission.Assets))

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeQueueSubmitted,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyNonce, Value: strconv.FormatUint(submission.Nonce, 10)},
		event.Attribute{Key: types.AttributeKeyDelta, Value: submission.Delta.String()},
	)
	return submission, err
}
