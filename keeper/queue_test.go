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

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pools.meridian.xyz/types"
)

func TestQueueAccumulatesFlows(t *testing.T) {
	k, escrow, _, ctx, bob := setupTest(t)

	// ARRANGE: Approve and issue a 100 deposit at unit prices.
	escrow.Fund(bob.Bytes, ASSET, math.NewInt(100*ONE))
	require.NoError(t, k.RequestDeposit(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(100*ONE)))
	_, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(100*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	_, err = k.IssueShares(ctx, POOL, CLASS, ASSET, 1, math.LegacyOneDec())
	require.NoError(t, err)

	// ASSERT: The asset queue records the inflow and the share queue the
	// issuance, with the asset counter bumped exactly once.
	assets, err := k.GetQueuedAssets(ctx, POOL, CLASS, ASSET)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), assets.Deposits)
	assert.True(t, assets.Withdrawals.IsZero())

	shares, err := k.GetQueuedShares(ctx, POOL, CLASS)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(100*ONE), shares.Delta)
	assert.True(t, shares.IsPositive)
	assert.Equal(t, uint32(1), shares.QueuedAssetCounter)
	assert.Equal(t, uint64(0), shares.Nonce)
}

func TestSubmitQueuedShares(t *testing.T) {
	k, escrow, headerService, ctx, bob := setupTest(t)

	// ARRANGE: An issued deposit of 100 awaiting submission.
	escrow.Fund(bob.Bytes, ASSET, math.NewInt(100*ONE))
	require.NoError(t, k.RequestDeposit(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(100*ONE)))
	_, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, math.NewInt(100*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	_, err = k.IssueShares(ctx, POOL, CLASS, ASSET, 1, math.LegacyOneDec())
	require.NoError(t, err)

	// ACT
	submission, err := k.SubmitQueuedShares(ctx, POOL, CLASS)
	require.NoError(t, err)

	// ASSERT: The submission carries the netted delta and the asset flows.
	assert.Equal(t, POOL, submission.Pool)
	assert.Equal(t, CLASS, submission.ShareClass)
	assert.Equal(t, math.NewInt(100*ONE), submission.Delta)
	assert.True(t, submission.IsPositive)
	assert.Equal(t, uint64(1), submission.Nonce)
	require.Len(t, submission.Assets, 1)
	assert.Equal(t, ASSET, submission.Assets[0].Asset)
	assert.Equal(t, math.NewInt(100*ONE), submission.Assets[0].Deposits)

	// ASSERT: The queue was drained and keeps the nonce.
	shares, err := k.GetQueuedShares(ctx, POOL, CLASS)
	require.NoError(t, err)
	assert.True(t, shares.Delta.IsZero())
	assert.Equal(t, uint32(0), shares.QueuedAssetCounter)
	assert.Equal(t, uint64(1), shares.Nonce)

	assets, err := k.GetQueuedAssets(ctx, POOL, CLASS, ASSET)
	require.NoError(t, err)
	assert.True(t, assets.IsZero())

	// ACT: An empty queue cannot be submitted.
	_, err = k.SubmitQueuedShares(ctx, POOL, CLASS)
	require.ErrorIs(t, err, types.ErrZeroAmount)

	// ARRANGE: A redemption cycle queues a withdrawal.
	_, _, err = k.ClaimDeposit(ctx, POOL, CLASS, ASSET, bob.Bytes, 0)
	require.NoError(t, err)
	advanceBlock(headerService)
	require.NoError(t, k.RequestRedeem(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(40*ONE)))
	_, err = k.ApproveRedeems(ctx, POOL, CLASS, ASSET, math.NewInt(40*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	_, _, err = k.RevokeShares(ctx, POOL, CLASS, ASSET, 1, math.LegacyOneDec())
	require.NoError(t, err)

	// ACT: The second submission nets negative with a strictly higher nonce.
	submission, err = k.SubmitQueuedShares(ctx, POOL, CLASS)
	require.NoError(t, err)
	assert.Equal(t, math.NewInt(40*ONE), submission.Delta)
	assert.False(t, submission.IsPositive)
	assert.Equal(t, uint64(2), submission.Nonce)
	require.Len(t, submission.Assets, 1)
	assert.Equal(t, math.NewInt(40*ONE), submission.Assets[0].Withdrawals)

	// ASSERT: The wire form round-trips.
	bz, err := types.EncodeSubmission(submission)
	require.NoError(t, err)
	decoded, err := types.DecodeSubmission(bz)
	require.NoError(t, err)
	assert.Equal(t, submission, decoded)
}

func TestQueueNetsIssuanceAgainstRevocation(t *testing.T) {
	k, escrow, headerService, ctx, bob := setupTest(t)

	totalIssued := math.ZeroInt()
	totalRevoked := math.ZeroInt()

	// The queued delta always equals total issued minus total revoked since
	// the last submission, in magnitude and sign.
	assertNet := func() {
		shares, err := k.GetQueuedShares(ctx, POOL, CLASS)
		require.NoError(t, err)
		net := totalIssued.Sub(totalRevoked)
		magnitude := net
		if net.IsNegative() {
			magnitude = net.Neg()
		}
		assert.Equal(t, magnitude, shares.Delta)
		assert.Equal(t, net.IsPositive(), shares.IsPositive)
	}

	// ACT: Issue 100 at unit prices.
	mintShares(t, k, escrow, headerService, ctx, bob, math.NewInt(100*ONE))
	totalIssued = totalIssued.Add(math.NewInt(100 * ONE))
	assertNet()

	// ACT: Revoke 30 of them.
	require.NoError(t, k.RequestRedeem(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(30*ONE)))
	_, err := k.ApproveRedeems(ctx, POOL, CLASS, ASSET, math.NewInt(30*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	_, _, err = k.RevokeShares(ctx, POOL, CLASS, ASSET, 1, math.LegacyOneDec())
	require.NoError(t, err)
	totalRevoked = totalRevoked.Add(math.NewInt(30 * ONE))
	assertNet()

	_, _, err = k.ClaimRedeem(ctx, POOL, CLASS, ASSET, bob.Bytes, 0)
	require.NoError(t, err)
	advanceBlock(headerService)

	// ACT: Issue another 50, then revoke 60.
	mintShares(t, k, escrow, headerService, ctx, bob, math.NewInt(50*ONE))
	totalIssued = totalIssued.Add(math.NewInt(50 * ONE))
	assertNet()

	require.NoError(t, k.RequestRedeem(ctx, POOL, CLASS, ASSET, bob.Bytes, math.NewInt(60*ONE)))
	_, err = k.ApproveRedeems(ctx, POOL, CLASS, ASSET, math.NewInt(60*ONE), math.LegacyOneDec())
	require.NoError(t, err)
	_, _, err = k.RevokeShares(ctx, POOL, CLASS, ASSET, 2, math.LegacyOneDec())
	require.NoError(t, err)
	totalRevoked = totalRevoked.Add(math.NewInt(60 * ONE))
	assertNet()
}

func TestSubmitQueuedSharesValidation(t *testing.T) {
	k, _, _, ctx, _ := setupTest(t)

	// ACT: Unknown share class.
	_, err := k.SubmitQueuedShares(ctx, POOL, 99)
	require.ErrorIs(t, err, types.ErrShareClassNotFound)

	// ACT: Nothing queued.
	_, err = k.SubmitQueuedShares(ctx, POOL, CLASS)
	require.ErrorIs(t, err, types.ErrZeroAmount)
}
