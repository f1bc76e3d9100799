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
	"time"

	"cosmossdk.io/core/header"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	"pools.meridian.xyz/keeper"
)

// PoolsKeeper creates a keeper wired against in-memory collaborators.
func PoolsKeeper() (*keeper.Keeper, EscrowKeeper, *HeaderService, *EventService, context.Context) {
	escrow := EscrowKeeper{Balances: make(map[string]map[uint64]math.Int)}
	return PoolsKeeperWithEscrow(escrow)
}

// PoolsKeeperWithEscrow creates a keeper around an existing escrow ledger.
func PoolsKeeperWithEscrow(escrow EscrowKeeper) (*keeper.Keeper, EscrowKeeper, *HeaderService, *EventService, context.Context) {
	headerService := &HeaderService{Info: header.Info{
		Height: 1,
		Time:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	eventService := &EventService{}

	k := keeper.NewKeeper(
		NewStoreService(),
		log.NewNopLogger(),
		headerService,
		eventService,
		escrow,
	)

	return k, escrow, headerService, eventService, context.Background()
}
