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
	"context"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"pools.meridian.xyz/keeper"
	"pools.meridian.xyz/types"
	"pools.meridian.xyz/utils"
	"pools.meridian.xyz/utils/mocks"
)

const (
	ONE = 1_000_000

	POOL  = uint64(1)
	CLASS = uint64(10)
	ASSET = uint64(100)
)

var testAccounts = types.HoldingAccounts{Asset: 1, Equity: 2, Gain: 3, Loss: 4}

// setupTest creates a keeper with one pool, one share class and an initialized
// holding, ready for request and epoch flows.
func setupTest(t *testing.T) (*keeper.Keeper, mocks.EscrowKeeper, *mocks.HeaderService, context.Context, utils.Account) {
	t.Helper()

	k, escrow, headerService, _, ctx := mocks.PoolsKeeper()

	require.NoError(t, k.CreatePool(ctx, POOL, "USD"))
	require.NoError(t, k.AddShareClass(ctx, POOL, CLASS))
	require.NoError(t, k.InitializeHolding(ctx, POOL, CLASS, ASSET, math.LegacyOneDec(), testAccounts))

	return k, escrow, headerService, ctx, utils.TestAccount()
}

// advanceBlock moves the mocked chain one block forward.
func advanceBlock(headerService *mocks.HeaderService) {
	headerService.Info.Height++
}

// mintShares runs a full deposit lifecycle for a single user at unit prices,
// leaving the user with exactly amount shares, and advances one block.
func mintShares(t *testing.T, k *keeper.Keeper, escrow mocks.EscrowKeeper, headerService *mocks.HeaderService, ctx context.Context, user utils.Account, amount math.Int) {
	t.Helper()

	escrow.Fund(user.Bytes, ASSET, amount)
	require.NoError(t, k.RequestDeposit(ctx, POOL, CLASS, ASSET, user.Bytes, amount))

	_, _, err := k.ApproveDeposits(ctx, POOL, CLASS, ASSET, amount, math.LegacyOneDec())
	require.NoError(t, err)

	epochs, err := k.GetEpochIds(ctx, CLASS, ASSET)
	require.NoError(t, err)
	_, err = k.IssueShares(ctx, POOL, CLASS, ASSET, epochs.Issue+1, math.LegacyOneDec())
	require.NoError(t, err)

	_, _, err = k.ClaimDeposit(ctx, POOL, CLASS, ASSET, user.Bytes, 0)
	require.NoError(t, err)

	advanceBlock(headerService)
}
