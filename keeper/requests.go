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
	sdk "github.com/cosmos/cosmos-sdk/types"

	"pools.meridian.xyz/types"
)

// GetDepositRequest returns a user's pending deposit order. The boolean flag
// indicates whether the order existed in state.
func (k *Keeper) GetDepositRequest(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) (types.UserOrder, bool, error) {
	order, err := k.DepositRequests.Get(ctx, collections.Join3(shareClass, asset, []byte(user)))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.UserOrder{Pending: math.ZeroInt()}, false, nil
		}
		return types.UserOrder{}, false, err
	}

	return order, true, nil
}

// GetRedeemRequest returns a user's pending redeem order. The boolean flag
// indicates whether the order existed in state.
func (k *Keeper) GetRedeemRequest(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) (types.UserOrder, bool, error) {
	order, err := k.RedeemRequests.Get(ctx, collections.Join3(shareClass, asset, []byte(user)))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.UserOrder{Pending: math.ZeroInt()}, false, nil
		}
		return types.UserOrder{}, false, err
	}

	return order, true, nil
}

// GetQueuedDepositRequest returns a user's staged deposit order, or an empty
// record when nothing is queued.
func (k *Keeper) GetQueuedDepositRequest(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) (types.QueuedOrder, error) {
	queued, err := k.QueuedDepositRequests.Get(ctx, collections.Join3(shareClass, asset, []byte(user)))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.QueuedOrder{Amount: math.ZeroInt()}, nil
		}
		return types.QueuedOrder{}, err
	}

	return queued, nil
}

// GetQueuedRedeemRequest returns a user's staged redeem order, or an empty
// record when nothing is queued.
func (k *Keeper) GetQueuedRedeemRequest(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) (types.QueuedOrder, error) {
	queued, err := k.QueuedRedeemRequests.Get(ctx, collections.Join3(shareClass, asset, []byte(user)))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return types.QueuedOrder{Amount: math.ZeroInt()}, nil
		}
		return types.QueuedOrder{}, err
	}

	return queued, nil
}

// RequestDeposit locks amount of the user's asset balance into the pending
// escrow and registers it for the open deposit epoch. A request arriving
// while the user's pending amount is already part of an approved epoch is
// staged into the queued order instead, so amounts never mix across epoch
// boundaries.
func (k *Keeper) RequestDeposit(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return err
	}
	if balance := k.escrow.Balance(ctx, user, asset); balance.LT(amount) {
		return sdkerrors.Wrapf(types.ErrInsufficientBalance, "balance %s, requested %s", balance, amount)
	}

	queued, err := k.GetQueuedDepositRequest(ctx, shareClass, asset, user)
	if err != nil {
		return err
	}
	if queued.IsCancelling {
		return types.ErrCancellationInFlight
	}

	order, _, err := k.GetDepositRequest(ctx, shareClass, asset, user)
	if err != nil {
		return err
	}
	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return err
	}

	if err := k.escrow.Transfer(ctx, user, types.PendingEscrowAddress(pool), asset, amount); err != nil {
		return err
	}

	key := collections.Join3(shareClass, asset, []byte(user))
	if !queued.IsEmpty() || (order.Pending.IsPositive() && order.LastUpdate < epochs.Deposit) {
		queued.Amount = queued.Amount.Add(amount)
		if err := k.QueuedDepositRequests.Set(ctx, key, queued); err != nil {
			return err
		}
	} else {
		order.Pending = order.Pending.Add(amount)
		order.LastUpdate = epochs.Deposit
		if err := k.DepositRequests.Set(ctx, key, order); err != nil {
			return err
		}

		pending, err := k.GetPendingDeposit(ctx, shareClass, asset)
		if err != nil {
			return err
		}
		if err := k.PendingDeposits.Set(ctx, collections.Join(shareClass, asset), pending.Add(amount)); err != nil {
			return err
		}
	}

	return k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositRequested,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyUser, Value: user.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: amount.String()},
	)
}

// RequestRedeem locks amount of the user's share balance into the ledger and
// registers it for the open redeem epoch, with the same queued staging rule
// as RequestDeposit.
func (k *Keeper) RequestRedeem(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress, amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return err
	}
	shares, err := k.GetUserShares(ctx, pool, shareClass, user)
	if err != nil {
		return err
	}
	if shares.LT(amount) {
		return sdkerrors.Wrapf(types.ErrInsufficientBalance, "share balance %s, requested %s", shares, amount)
	}

	queued, err := k.GetQueuedRedeemRequest(ctx, shareClass, asset, user)
	if err != nil {
		return err
	}
	if queued.IsCancelling {
		return types.ErrCancellationInFlight
	}

	order, _, err := k.GetRedeemRequest(ctx, shareClass, asset, user)
	if err != nil {
		return err
	}
	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return err
	}

	if err := k.setUserShares(ctx, pool, shareClass, user, shares.Sub(amount)); err != nil {
		return err
	}

	key := collections.Join3(shareClass, asset, []byte(user))
	if !queued.IsEmpty() || (order.Pending.IsPositive() && order.LastUpdate < epochs.Redeem) {
		queued.Amount = queued.Amount.Add(amount)
		if err := k.QueuedRedeemRequests.Set(ctx, key, queued); err != nil {
			return err
		}
	} else {
		order.Pending = order.Pending.Add(amount)
		order.LastUpdate = epochs.Redeem
		if err := k.RedeemRequests.Set(ctx, key, order); err != nil {
			return err
		}

		pending, err := k.GetPendingRedeem(ctx, shareClass, asset)
		if err != nil {
			return err
		}
		if err := k.PendingRedeems.Set(ctx, collections.Join(shareClass, asset), pending.Add(amount)); err != nil {
			return err
		}
	}

	return k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemRequested,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyUser, Value: user.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: amount.String()},
	)
}

// CancelDepositRequest cancels a user's deposit request. Un-approved amounts
// are refunded from the pending escrow immediately and returned as the
// payout; amounts already locked into an approved epoch stage a cancellation
// on the queued order, which pays out once the user has claimed through all
// closed epochs.
func (k *Keeper) CancelDepositRequest(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) (math.Int, error) {
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return math.ZeroInt(), err
	}

	queued, err := k.GetQueuedDepositRequest(ctx, shareClass, asset, user)
	if err != nil {
		return math.ZeroInt(), err
	}
	if queued.IsCancelling {
		return math.ZeroInt(), types.ErrCancellationInFlight
	}

	order, found, err := k.GetDepositRequest(ctx, shareClass, asset, user)
	if err != nil {
		return math.ZeroInt(), err
	}
	hasPending := found && order.Pending.IsPositive()
	if !hasPending && queued.Amount.IsZero() {
		return math.ZeroInt(), types.ErrNoPendingRequest
	}

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return math.ZeroInt(), err
	}

	key := collections.Join3(shareClass, asset, []byte(user))

	if hasPending && order.LastUpdate < epochs.Deposit {
		// The pending amount is already part of an approved epoch; resolve
		// the cancellation lazily at claim time.
		queued.IsCancelling = true
		if err := k.QueuedDepositRequests.Set(ctx, key, queued); err != nil {
			return math.ZeroInt(), err
		}
		return math.ZeroInt(), nil
	}

	// After claims the order can hold floor dust no longer backed by the
	// pending escrow, at most one atomic unit per user per claimed epoch.
	payout := order.Pending.Add(queued.Amount)
	if order.Pending.IsPositive() {
		pending, err := k.GetPendingDeposit(ctx, shareClass, asset)
		if err != nil {
			return math.ZeroInt(), err
		}
		if err := k.PendingDeposits.Set(ctx, collections.Join(shareClass, asset), pending.Sub(order.Pending)); err != nil {
			return math.ZeroInt(), err
		}
	}
	if err := k.removeDepositOrder(ctx, shareClass, asset, user); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.escrow.Transfer(ctx, types.PendingEscrowAddress(pool), user, asset, payout); err != nil {
		return math.ZeroInt(), err
	}

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositCancelled,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyUser, Value: user.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: payout.String()},
	)
	return payout, err
}

// CancelRedeemRequest is the share-side counterpart of CancelDepositRequest:
// the immediate payout returns shares to the user's balance.
func (k *Keeper) CancelRedeemRequest(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) (math.Int, error) {
	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return math.ZeroInt(), err
	}

	queued, err := k.GetQueuedRedeemRequest(ctx, shareClass, asset, user)
	if err != nil {
		return math.ZeroInt(), err
	}
	if queued.IsCancelling {
		return math.ZeroInt(), types.ErrCancellationInFlight
	}

	order, found, err := k.GetRedeemRequest(ctx, shareClass, asset, user)
	if err != nil {
		return math.ZeroInt(), err
	}
	hasPending := found && order.Pending.IsPositive()
	if !hasPending && queued.Amount.IsZero() {
		return math.ZeroInt(), types.ErrNoPendingRequest
	}

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return math.ZeroInt(), err
	}

	key := collections.Join3(shareClass, asset, []byte(user))

	if hasPending && order.LastUpdate < epochs.Redeem {
		queued.IsCancelling = true
		if err := k.QueuedRedeemRequests.Set(ctx, key, queued); err != nil {
			return math.ZeroInt(), err
		}
		return math.ZeroInt(), nil
	}

	payout := order.Pending.Add(queued.Amount)
	if order.Pending.IsPositive() {
		pending, err := k.GetPendingRedeem(ctx, shareClass, asset)
		if err != nil {
			return math.ZeroInt(), err
		}
		if err := k.PendingRedeems.Set(ctx, collections.Join(shareClass, asset), pending.Sub(order.Pending)); err != nil {
			return math.ZeroInt(), err
		}
	}
	if err := k.removeRedeemOrder(ctx, shareClass, asset, user); err != nil {
		return math.ZeroInt(), err
	}
	shares, err := k.GetUserShares(ctx, pool, shareClass, user)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.setUserShares(ctx, pool, shareClass, user, shares.Add(payout)); err != nil {
		return math.ZeroInt(), err
	}

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemCancelled,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyUser, Value: user.String()},
		event.Attribute{Key: types.AttributeKeyShares, Value: payout.String()},
	)
	return payout, err
}

// removeDepositOrder deletes a user's deposit order and queued record.
func (k *Keeper) removeDepositOrder(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) error {
	key := collections.Join3(shareClass, asset, []byte(user))
	if err := k.DepositRequests.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	if err := k.QueuedDepositRequests.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	return nil
}

// removeRedeemOrder deletes a user's redeem order and queued record.
func (k *Keeper) removeRedeemOrder(ctx context.Context, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress) error {
	key := collections.Join3(shareClass, asset, []byte(user))
	if err := k.RedeemRequests.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	if err := k.QueuedRedeemRequests.Remove(ctx, key); err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	return nil
}
