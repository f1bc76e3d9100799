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
	"strconv"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/event"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"pools.meridian.xyz/types"
)

// ClaimDeposit settles a user's deposit order against all closed and issued
// epochs since the user's last claim, at most maxEpochs of them per call
// (zero meaning no bound). The per-user allocation is the floor pro-rata cut
// of each epoch's approved amount; issued shares are credited to the user's
// balance. Once the cursor has caught up with the open epoch, a staged
// cancellation pays out the remaining pending assets, otherwise a staged
// queued amount folds into the open epoch.
//
// It returns the shares credited and the assets refunded by a cancellation.
func (k *Keeper) ClaimDeposit(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress, maxEpochs uint32) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return zero, zero, err
	}

	order, found, err := k.GetDepositRequest(ctx, shareClass, asset, user)
	if err != nil {
		return zero, zero, err
	}
	queued, err := k.GetQueuedDepositRequest(ctx, shareClass, asset, user)
	if err != nil {
		return zero, zero, err
	}
	if !found && queued.IsEmpty() {
		return zero, zero, types.ErrNoPendingRequest
	}

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return zero, zero, err
	}
	if !found {
		order.LastUpdate = epochs.Deposit
	}

	claimedShares := math.ZeroInt()
	steps := uint32(0)
	epoch := order.LastUpdate

	for epoch < epochs.Deposit && epoch <= epochs.Issue {
		if maxEpochs > 0 && steps == maxEpochs {
			break
		}

		record, err := k.EpochInvest.Get(ctx, collections.Join3(shareClass, asset, epoch))
		if err != nil {
			return zero, zero, err
		}

		approvedUser := types.ProRata(order.Pending, record.ApprovedAssetAmount, record.PendingAssetAmount)
		sharesUser := types.ProRata(approvedUser, record.IssuedShareAmount, record.ApprovedAssetAmount)

		order.Pending = order.Pending.Sub(approvedUser)
		claimedShares = claimedShares.Add(sharesUser)

		epoch++
		steps++
	}
	order.LastUpdate = epoch

	if claimedShares.IsPositive() {
		shares, err := k.GetUserShares(ctx, pool, shareClass, user)
		if err != nil {
			return zero, zero, err
		}
		if err := k.setUserShares(ctx, pool, shareClass, user, shares.Add(claimedShares)); err != nil {
			return zero, zero, err
		}
	}

	key := collections.Join3(shareClass, asset, []byte(user))
	cancelled := math.ZeroInt()

	if epoch < epochs.Deposit {
		// Not caught up yet; queued state stays staged.
		if err := k.DepositRequests.Set(ctx, key, order); err != nil {
			return zero, zero, err
		}
	} else if queued.IsCancelling {
		// order.Pending can hold floor dust from the claim loop above that
		// the pending escrow no longer backs, at most one atomic unit per
		// claimed epoch.
		cancelled = order.Pending.Add(queued.Amount)
		if order.Pending.IsPositive() {
			pending, err := k.GetPendingDeposit(ctx, shareClass, asset)
			if err != nil {
				return zero, zero, err
			}
			if err := k.PendingDeposits.Set(ctx, collections.Join(shareClass, asset), pending.Sub(order.Pending)); err != nil {
				return zero, zero, err
			}
		}
		if err := k.removeDepositOrder(ctx, shareClass, asset, user); err != nil {
			return zero, zero, err
		}
		if err := k.escrow.Transfer(ctx, types.PendingEscrowAddress(pool), user, asset, cancelled); err != nil {
			return zero, zero, err
		}
	} else {
		if queued.Amount.IsPositive() {
			order.Pending = order.Pending.Add(queued.Amount)
			pending, err := k.GetPendingDeposit(ctx, shareClass, asset)
			if err != nil {
				return zero, zero, err
			}
			if err := k.PendingDeposits.Set(ctx, collections.Join(shareClass, asset), pending.Add(queued.Amount)); err != nil {
				return zero, zero, err
			}
			if err := k.QueuedDepositRequests.Remove(ctx, key); err != nil {
				return zero, zero, err
			}
		}

		if order.Pending.IsZero() {
			if err := k.removeDepositOrder(ctx, shareClass, asset, user); err != nil {
				return zero, zero, err
			}
		} else if err := k.DepositRequests.Set(ctx, key, order); err != nil {
			return zero, zero, err
		}
	}

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeDepositClaimed,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyUser, Value: user.String()},
		event.Attribute{Key: types.AttributeKeyShares, Value: claimedShares.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: cancelled.String()},
	)
	return claimedShares, cancelled, err
}

// ClaimRedeem settles a user's redeem order against all closed and revoked
// epochs since the user's last claim, paying the floor pro-rata asset payout
// from the pending escrow. Approved shares an epoch could not revoke (a zero
// share price) are handed back to the user's share balance. Cancellation and
// queued folding mirror ClaimDeposit, with shares taking the place of assets.
//
// It returns the assets paid out and the shares returned by a cancellation.
func (k *Keeper) ClaimRedeem(ctx context.Context, pool types.PoolId, shareClass types.ShareClassId, asset types.AssetId, user sdk.AccAddress, maxEpochs uint32) (math.Int, math.Int, error) {
	zero := math.ZeroInt()

	if _, err := k.shareClass(ctx, pool, shareClass); err != nil {
		return zero, zero, err
	}

	order, found, err := k.GetRedeemRequest(ctx, shareClass, asset, user)
	if err != nil {
		return zero, zero, err
	}
	queued, err := k.GetQueuedRedeemRequest(ctx, shareClass, asset, user)
	if err != nil {
		return zero, zero, err
	}
	if !found && queued.IsEmpty() {
		return zero, zero, types.ErrNoPendingRequest
	}

	epochs, err := k.GetEpochIds(ctx, shareClass, asset)
	if err != nil {
		return zero, zero, err
	}
	if !found {
		order.LastUpdate = epochs.Redeem
	}

	paidAssets := math.ZeroInt()
	refundedShares := math.ZeroInt()
	steps := uint32(0)
	epoch := order.LastUpdate

	for epoch < epochs.Redeem && epoch <= epochs.Revoke {
		if maxEpochs > 0 && steps == maxEpochs {
			break
		}

		record, err := k.EpochRedeem.Get(ctx, collections.Join3(shareClass, asset, epoch))
		if err != nil {
			return zero, zero, err
		}

		approvedUser := types.ProRata(order.Pending, record.ApprovedShareAmount, record.PendingShareAmount)
		revokedUser := types.ProRata(approvedUser, record.RevokedShareAmount, record.ApprovedShareAmount)
		payoutUser := types.ProRata(revokedUser, record.PayoutAssetAmount, record.RevokedShareAmount)

		order.Pending = order.Pending.Sub(approvedUser)
		paidAssets = paidAssets.Add(payoutUser)
		refundedShares = refundedShares.Add(approvedUser.Sub(revokedUser))

		epoch++
		steps++
	}
	order.LastUpdate = epoch

	if paidAssets.IsPositive() {
		if err := k.escrow.Transfer(ctx, types.PendingEscrowAddress(pool), user, asset, paidAssets); err != nil {
			return zero, zero, err
		}
	}

	key := collections.Join3(shareClass, asset, []byte(user))
	cancelled := math.ZeroInt()
	creditShares := refundedShares

	if epoch < epochs.Redeem {
		if err := k.RedeemRequests.Set(ctx, key, order); err != nil {
			return zero, zero, err
		}
	} else if queued.IsCancelling {
		cancelled = order.Pending.Add(queued.Amount)
		creditShares = creditShares.Add(cancelled)
		if order.Pending.IsPositive() {
			pending, err := k.GetPendingRedeem(ctx, shareClass, asset)
			if err != nil {
				return zero, zero, err
			}
			if err := k.PendingRedeems.Set(ctx, collections.Join(shareClass, asset), pending.Sub(order.Pending)); err != nil {
				return zero, zero, err
			}
		}
		if err := k.removeRedeemOrder(ctx, shareClass, asset, user); err != nil {
			return zero, zero, err
		}
	} else {
		if queued.Amount.IsPositive() {
			order.Pending = order.Pending.Add(queued.Amount)
			pending, err := k.GetPendingRedeem(ctx, shareClass, asset)
			if err != nil {
				return zero, zero, err
			}
			if err := k.PendingRedeems.Set(ctx, collections.Join(shareClass, asset), pending.Add(queued.Amount)); err != nil {
				return zero, zero, err
			}
			if err := k.QueuedRedeemRequests.Remove(ctx, key); err != nil {
				return zero, zero, err
			}
		}

		if order.Pending.IsZero() {
			if err := k.removeRedeemOrder(ctx, shareClass, asset, user); err != nil {
				return zero, zero, err
			}
		} else if err := k.RedeemRequests.Set(ctx, key, order); err != nil {
			return zero, zero, err
		}
	}

	if creditShares.IsPositive() {
		shares, err := k.GetUserShares(ctx, pool, shareClass, user)
		if err != nil {
			return zero, zero, err
		}
		if err := k.setUserShares(ctx, pool, shareClass, user, shares.Add(creditShares)); err != nil {
			return zero, zero, err
		}
	}

	err = k.event.EventManager(ctx).EmitKV(ctx, types.EventTypeRedeemClaimed,
		event.Attribute{Key: types.AttributeKeyPool, Value: strconv.FormatUint(pool, 10)},
		event.Attribute{Key: types.AttributeKeyShareClass, Value: strconv.FormatUint(shareClass, 10)},
		event.Attribute{Key: types.AttributeKeyAsset, Value: strconv.FormatUint(asset, 10)},
		event.Attribute{Key: types.AttributeKeyUser, Value: user.String()},
		event.Attribute{Key: types.AttributeKeyAmount, Value: paidAssets.String()},
		event.Attribute{Key: types.AttributeKeyShares, Value: cancelled.String()},
	)
	return paidAssets, cancelled, err
}
