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
	"cosmossdk.io/collections"
	"cosmossdk.io/core/event"
	"cosmossdk.io/core/header"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"pools.meridian.xyz/types"
)

// Keeper is the epoch-batched investment ledger. Each collection owns one key
// namespace; user requests, epoch records, accounting, holdings and the
// balance-sheet queue are kept in separate per-concern stores.
type Keeper struct {
	store store.KVStoreService

	logger log.Logger
	header header.Service
	event  event.Service
	escrow types.EscrowKeeper

	Pools        collections.Map[uint64, types.Pool]
	ShareClasses collections.Map[uint64, types.ShareClass]

	EpochIds      collections.Map[collections.Pair[uint64, uint64], types.EpochIds]
	EpochInvest   collections.Map[collections.Triple[uint64, uint64, uint32], types.EpochInvestAmounts]
	EpochRedeem   collections.Map[collections.Triple[uint64, uint64, uint32], types.EpochRedeemAmounts]
	EpochAdvances collections.Map[collections.Triple[uint64, uint64, uint16], int64]

	DepositRequests       collections.Map[collections.Triple[uint64, uint64, []byte], types.UserOrder]
	RedeemRequests        collections.Map[collections.Triple[uint64, uint64, []byte], types.UserOrder]
	QueuedDepositRequests collections.Map[collections.Triple[uint64, uint64, []byte], types.QueuedOrder]
	QueuedRedeemRequests  collections.Map[collections.Triple[uint64, uint64, []byte], types.QueuedOrder]
	PendingDeposits       collections.Map[collections.Pair[uint64, uint64], math.Int]
	PendingRedeems        collections.Map[collections.Pair[uint64, uint64], math.Int]

	Holdings        collections.Map[collections.Triple[uint64, uint64, uint64], types.Holding]
	HoldingAccounts collections.Map[collections.Triple[uint64, uint64, uint64], types.HoldingAccounts]
	Accounts        collections.Map[collections.Pair[uint64, uint32], types.Account]
	UserShares      collections.Map[collections.Triple[uint64, uint64, []byte], math.Int]

	QueuedShares collections.Map[collections.Pair[uint64, uint64], types.QueuedShares]
	QueuedAssets collections.Map[collections.Triple[uint64, uint64, uint64], types.QueuedAssets]
}

func NewKeeper(
	store store.KVStoreService,
	logger log.Logger,
	header header.Service,
	event event.Service,
	escrow types.EscrowKeeper,
) *Keeper {
	builder := collections.NewSchemaBuilder(store)

	keeper := &Keeper{
		store: store,

		logger: logger.With("module", types.ModuleName),
		header: header,
		event:  event,
		escrow: escrow,

		Pools:        collections.NewMap(builder, types.PoolPrefix, "pools", collections.Uint64Key, types.PoolValue),
		ShareClasses: collections.NewMap(builder, types.ShareClassPrefix, "share_classes", collections.Uint64Key, types.ShareClassValue),

		EpochIds:      collections.NewMap(builder, types.EpochIdsPrefix, "epoch_ids", collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key), types.EpochIdsValue),
		EpochInvest:   collections.NewMap(builder, types.EpochInvestPrefix, "epoch_invest", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.Uint32Key), types.EpochInvestValue),
		EpochRedeem:   collections.NewMap(builder, types.EpochRedeemPrefix, "epoch_redeem", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.Uint32Key), types.EpochRedeemValue),
		EpochAdvances: collections.NewMap(builder, types.EpochAdvancePrefix, "epoch_advances", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.Uint16Key), collections.Int64Value),

		DepositRequests:       collections.NewMap(builder, types.DepositRequestPrefix, "deposit_requests", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.BytesKey), types.UserOrderValue),
		RedeemRequests:        collections.NewMap(builder, types.RedeemRequestPrefix, "redeem_requests", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.BytesKey), types.UserOrderValue),
		QueuedDepositRequests: collections.NewMap(builder, types.QueuedDepositRequestPrefix, "queued_deposit_requests", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.BytesKey), types.QueuedOrderValue),
		QueuedRedeemRequests:  collections.NewMap(builder, types.QueuedRedeemRequestPrefix, "queued_redeem_requests", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.BytesKey), types.QueuedOrderValue),
		PendingDeposits:       collections.NewMap(builder, types.PendingDepositPrefix, "pending_deposits", collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key), sdk.IntValue),
		PendingRedeems:        collections.NewMap(builder, types.PendingRedeemPrefix, "pending_redeems", collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key), sdk.IntValue),

		Holdings:        collections.NewMap(builder, types.HoldingPrefix, "holdings", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.Uint64Key), types.HoldingValue),
		HoldingAccounts: collections.NewMap(builder, types.HoldingAccountsPrefix, "holding_accounts", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.Uint64Key), types.HoldingAccountsValue),
		Accounts:        collections.NewMap(builder, types.AccountPrefix, "accounts", collections.PairKeyCodec(collections.Uint64Key, collections.Uint32Key), types.AccountValue),
		UserShares:      collections.NewMap(builder, types.UserSharesPrefix, "user_shares", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.BytesKey), sdk.IntValue),

		QueuedShares: collections.NewMap(builder, types.QueuedSharesPrefix, "queued_shares", collections.PairKeyCodec(collections.Uint64Key, collections.Uint64Key), types.QueuedSharesValue),
		QueuedAssets: collections.NewMap(builder, types.QueuedAssetsPrefix, "queued_assets", collections.TripleKeyCodec(collections.Uint64Key, collections.Uint64Key, collections.Uint64Key), types.QueuedAssetsValue),
	}

	_, err := builder.Build()
	if err != nil {
		panic(err)
	}

	return keeper
}

// SetEscrowKeeper overwrites the escrow keeper used in this module.
func (k *Keeper) SetEscrowKeeper(escrow types.EscrowKeeper) {
	k.escrow = escrow
}
