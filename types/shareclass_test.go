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

package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/assert"

	"pools.meridian.xyz/types"
)

func TestDefaultEpochIds(t *testing.T) {
	epochs := types.DefaultEpochIds()

	// Deposit and Redeem point at the open epoch, Issue and Revoke at the
	// last closed one.
	assert.Equal(t, uint32(1), epochs.Deposit)
	assert.Equal(t, uint32(0), epochs.Issue)
	assert.Equal(t, uint32(1), epochs.Redeem)
	assert.Equal(t, uint32(0), epochs.Revoke)
}

func TestConversionsTruncate(t *testing.T) {
	price := math.LegacyMustNewDecFromStr("1.5")

	assert.Equal(t, math.NewInt(150), types.ConvertAssetToPool(math.NewInt(100), price))
	// 101 * 1.5 = 151.5, truncated down.
	assert.Equal(t, math.NewInt(151), types.ConvertAssetToPool(math.NewInt(101), price))

	// 100 / 1.5 = 66.66..., truncated down.
	assert.Equal(t, math.NewInt(66), types.ConvertPoolToShares(math.NewInt(100), price))
	assert.Equal(t, math.NewInt(66), types.ConvertPoolToAsset(math.NewInt(100), price))

	assert.Equal(t, math.NewInt(150), types.ConvertSharesToPool(math.NewInt(100), price))
}

func TestConversionsZeroPrice(t *testing.T) {
	zero := math.LegacyZeroDec()

	assert.True(t, types.ConvertAssetToPool(math.NewInt(100), zero).IsZero())
	assert.True(t, types.ConvertPoolToShares(math.NewInt(100), zero).IsZero())
	assert.True(t, types.ConvertSharesToPool(math.NewInt(100), zero).IsZero())
	assert.True(t, types.ConvertPoolToAsset(math.NewInt(100), zero).IsZero())

	var nilPrice math.LegacyDec
	assert.True(t, types.ConvertAssetToPool(math.NewInt(100), nilPrice).IsZero())
}

func TestProRata(t *testing.T) {
	// 33 * 50 / 100 = 16.5, floored.
	assert.Equal(t, math.NewInt(16), types.ProRata(math.NewInt(33), math.NewInt(50), math.NewInt(100)))
	assert.Equal(t, math.NewInt(33), types.ProRata(math.NewInt(67), math.NewInt(50), math.NewInt(100)))

	// The floored per-user cuts never exceed the epoch total.
	total := types.ProRata(math.NewInt(33), math.NewInt(50), math.NewInt(100)).
		Add(types.ProRata(math.NewInt(67), math.NewInt(50), math.NewInt(100)))
	assert.True(t, total.LTE(math.NewInt(50)))

	assert.True(t, types.ProRata(math.NewInt(33), math.NewInt(50), math.ZeroInt()).IsZero())
}

func TestQueuedOrderIsEmpty(t *testing.T) {
	assert.True(t, types.QueuedOrder{Amount: math.ZeroInt()}.IsEmpty())
	assert.True(t, types.QueuedOrder{}.IsEmpty())
	assert.False(t, types.QueuedOrder{Amount: math.NewInt(1)}.IsEmpty())
	assert.False(t, types.QueuedOrder{IsCancelling: true, Amount: math.ZeroInt()}.IsEmpty())
}
