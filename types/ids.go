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

package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const ModuleName = "pools"

// PoolId identifies a tokenized pool. A pool holds one or more asset types
// and is subdivided into share classes.
type PoolId = uint64

// ShareClassId identifies a share class. A share class belongs to exactly one
// pool.
type ShareClassId = uint64

// AssetId identifies an investable asset type.
type AssetId = uint64

// AccountId identifies a double-entry account within a pool.
type AccountId = uint32

// Epoch counter kinds, used to guard per-batch counter advancement.
const (
	EpochKindDeposit uint16 = iota
	EpochKindIssue
	EpochKindRedeem
	EpochKindRevoke
)

// PendingEscrowAddress derives the escrow account holding un-approved request
// funds and redemption payouts awaiting claim for the given pool.
func PendingEscrowAddress(pool PoolId) sdk.AccAddress {
	return authtypes.NewModuleAddress(fmt.Sprintf("%s/pending-escrow/%d", ModuleName, pool))
}

// PoolEscrowAddress derives the escrow account backing the pool's approved
// holdings for the given pool.
func PoolEscrowAddress(pool PoolId) sdk.AccAddress {
	return authtypes.NewModuleAddress(fmt.Sprintf("%s/pool-escrow/%d", ModuleName, pool))
}
