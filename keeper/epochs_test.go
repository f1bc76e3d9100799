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

package keeper_test

import (
	"testing"

	"cosmossdk.io/collections"
	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pools.meridian.xyz/types"
)

func TestApproveDepositsPartial(t *testing.T) {
	k, escrow, _, ctx, bob := setupTest(t)

	// ARRANGE: 100 pending from Bob.
	escrow.Fund(bob.Bytes, ASSET, math.NewInt(100*ONE))
	require.NoError(t, k.RequestDeposit(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(100*ONE)))

	// ACT: Approve only 30 at a price of 1.5.
	approved, poolAmount, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(30*ONE), math.LegacyMustNewDecFromStr("1.5"))
	require.NoError(t, err)

	// ASSERT: Approved amount capped at the maximum, valued in pool currency.
	assert.Equal(t, math.NewInt(30*ONE), approved)
	assert.Equal(t, math.NewInt(45*ONE), poolAmount)

	// ASSERT: The remainder rolls into the next open epoch.
	pending, err := k.GetPendingDeposit(ctx, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(70*ONE), pending)

	// ASSERT: Approved assets moved from pending to pool escrow.
	assert.Equal(t, math.NewInt(70*ONE), escrow.Balances[types.PendingEscrowAddress(POOL).String()][ASSET])
	assert.Equal(t, math.NewInt(30*ONE), escrow.Balances[types.PoolEscrowAddress(POOL).String()][ASSET])

	// ASSERT: The epoch record snapshots the pending total.
	record, err := k.EpochInvest.Get(ctx, collections.Join3(CLASS, ASSET, uint32(1)))
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), record.PendingAssetAmount)
	assert.Equal(t, math.NewInt(30*ONE), record.ApprovedAssetAmount)
	assert.Equal(t, math.NewInt(45*ONE), record.ApprovedPoolAmount)

	// ASSERT: The deposit counter advanced by exactly 1.
	epochs, err := k.GetEpochIds(ctx, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), epochs.Deposit)

	// ASSERT: The holding tracks the approved assets and their value.
	holding, err := k.GetHolding(ctx, POOL, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(30*ONE), holding.AssetAmount)
	assert.Equal(t, math.NewInt(45*ONE), holding.Value)
}

func TestApproveDepositsOncePerBatch(t *testing.T) {
	k, escrow, headerService, ctx, bob := setupTest(t)

	// ARRANGE
	escrow.Fund(bob.Bytes, ASSET, math.NewInt(100*ONE))
	require.NoError(t, k.RequestDeposit(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(100*ONE)))
	_, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(30*ONE), math.LegacyOneDec())
	require.NoError(t, err)

	// ACT: A second approval in the same block is rejected.
	_, _, err = k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(30*ONE), math.LegacyOneDec())
	require.ErrorIs(t, err, types.ErrAlreadyApproved)

	// ACT: The next block may approve the rolled-over remainder.
	advanceBlock(headerService)
	approved, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(100*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(70*ONE), approved)

	epochs, err := k.GetEpochIds(ctx, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), epochs.Deposit)
}

func TestApproveDepositsValidation(t *testing.T) {
	k, _, _, ctx, _ := setupTest(t)

	// ACT: Nothing pending.
	_, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(ONE), math.LegacyOneDec())
	require.ErrorIs(t, err, types.ErrZeroAmount)

	// ACT: Zero maximum.
	_, _, err = k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.ZeroInt(), math.LegacyOneDec())
	require.ErrorIs(t, err, types.ErrZeroAmount)

	// ACT: No holding initialized for the asset.
	_, _, err = k.ApproveDeposits(ctx, POOL, CLASS, 999, math.NewInt(ONE), math.LegacyOneDec())
	require.ErrorIs(t, err, types.ErrHoldingNotFound)
}

func TestApproveRedeems(t *testing.T) {
	k, escrow, headerService, ctx, bob := setupTest(t)

	// ARRANGE: Bob holds 100 shares and wants 40 redeemed.
	mintShares(t, k, escrow, headerService, ctx, bob, math.NewInt(100*ONE))
	require.NoError(t, k.RequestRedeem(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(40*ONE)))

	// ACT: Approve 25 of the 40 pending shares.
	approved, err := k.ApproveRedeems(ctx, POOL, CLASS, ASSET, math.NewInt(25*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(25*ONE), approved)

	// ASSERT: The remainder stays pending, no escrow movement yet.
	pending, err := k.GetPendingRedeem(ctx, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(15*ONE), pending)
	assert.Equal(t, math.NewInt(100*ONE), escrow.Balances[types.PoolEscrowAddress(POOL).String()][ASSET])

	record, err := k.EpochRedeem.Get(ctx, collections.Join3(CLASS, ASSET, uint32(1)))
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(40*ONE), record.PendingShareAmount)
	assert.Equal(t, math.NewInt(25*ONE), record.ApprovedShareAmount)

	epochs, err := k.GetEpochIds(ctx, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), epochs.Redeem)

	// ACT: A second approval in the same block is rejected.
	_, err = k.ApproveRedeems(ctx, POOL, CLASS, ASSET, math.NewInt(15*ONE), math.LegacyOneDec())
	require.ErrorIs(t, err, types.ErrAlreadyApproved)
}

func TestDepositAndRedeemApprovalsShareABatch(t *testing.T) {
	k, escrow, headerService, ctx, bob := setupTest(t)

	// ARRANGE: Shares on one side, a fresh deposit on the other.
	mintShares(t, k, escrow, headerService, ctx, bob, math.NewInt(50*ONE))
	require.NoError(t, k.RequestRedeem(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(20*ONE)))
	escrow.Fund(bob.Bytes, ASSET, math.NewInt(10*ONE))
	require.NoError(t, k.RequestDeposit(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(10*ONE)))

	// ACT: Deposit and redeem counters are independent within one block.
	_, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(10*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	_, err = k.ApproveRedeems(ctx, POOL, CLASS, ASSET, math.NewInt(20*ONE), math.LegacyOneDec())
	require.NoError(t, err)

	epochs, err := k.GetEpochIds(ctx, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), epochs.Deposit)
	assert.Equal(t, uint32(2), epochs.Redeem)
}
