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

package mocks

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"pools.meridian.xyz/types"
)

// EscrowKeeper is an in-memory asset ledger keyed by address and asset id.
type EscrowKeeper struct {
	Balances map[string]map[uint64]math.Int
}

var _ types.EscrowKeeper = EscrowKeeper{}

func (k EscrowKeeper) Balance(_ context.Context, addr sdk.AccAddress, asset types.AssetId) math.Int {
	balance, ok := k.Balances[addr.String()][asset]
	if !ok {
		return math.ZeroInt()
	}
	return balance
}

func (k EscrowKeeper) Transfer(ctx context.Context, from, to sdk.AccAddress, asset types.AssetId, amount math.Int) error {
	if amount.IsZero() {
		return nil
	}

	balance := k.Balance(ctx, from, asset)
	if balance.LT(amount) {
		return fmt.Errorf("insufficient balance: %s has %s of asset %d, needs %s", from, balance, asset, amount)
	}

	k.Balances[from.String()][asset] = balance.Sub(amount)
	if _, ok := k.Balances[to.String()]; !ok {
		k.Balances[to.String()] = make(map[uint64]math.Int)
	}
	k.Balances[to.String()][asset] = k.Balance(ctx, to, asset).Add(amount)

	return nil
}

// Fund credits an address with an asset balance.
func (k EscrowKeeper) Fund(addr sdk.AccAddress, asset types.AssetId, amount math.Int) {
	if _, ok := k.Balances[addr.String()]; !ok {
		k.Balances[addr.String()] = make(map[uint64]math.Int)
	}
	k.Balances[addr.String()][asset] = k.Balance(context.Background(), addr, asset).Add(amount)
}
