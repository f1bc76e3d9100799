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

	"cosmossdk.io/collections"
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"pools.meridian.xyz/types"
)

// CreateAccount initializes a double-entry account of the given kind.
func (k *Keeper) CreateAccount(ctx context.Context, pool types.PoolId, account types.AccountId, kind types.AccountKind) error {
	exists, err := k.Pools.Has(ctx, pool)
	if err != nil {
		return err
	}
	if !exists {
		return sdkerrors.Wrapf(types.ErrPoolNotFound, "pool %d", pool)
	}

	key := collections.Join(pool, account)
	has, err := k.Accounts.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return sdkerrors.Wrapf(types.ErrAccountAlreadyExists, "account %d in pool %d", account, pool)
	}

	return k.Accounts.Set(ctx, key, types.ZeroAccount(kind))
}

// Post applies a single debit/credit posting to an account. Postings to an
// account that was never created fail; every account touched by economic
// events is created up front by InitializeHolding.
func (k *Keeper) Post(ctx context.Context, pool types.PoolId, account types.AccountId, debit, credit math.Int) error {
	record, err := k.Accounts.Get(ctx, collections.Join(pool, account))
	if err != nil {
		if errors.Is(err, collections.ErrNotFound) {
			return sdkerrors.Wrapf(types.ErrAccountDoesNotExist, "account %d in pool %d", account, pool)
		}
		return err
	}

	if !debit.IsNil() && debit.IsPositive() {
		record.TotalDebit = record.TotalDebit.Add(debit)
	}
	if !credit.IsNil() && credit.IsPositive() {
		record.TotalCredit = record.TotalCredit.Add(credit)
	}

	return k.Accounts.Set(ctx, collections.Join(pool, account), record)
}

// AccountValue returns the value of an account as a sign flag plus magnitude.
// An account that was never initialized is a valid zero account as long as
// the pool exists; only a pool that was never created is an error.
func (k *Keeper) AccountValue(ctx context.Context, pool types.PoolId, account types.AccountId) (bool, math.Int, error) {
	record, err := k.Accounts.Get(ctx, collections.Join(pool, account))
	if err != nil {
		if !errors.Is(err, collections.ErrNotFound) {
			return false, math.ZeroInt(), err
		}

		exists, err := k.Pools.Has(ctx, pool)
		if err != nil {
			return false, math.ZeroInt(), err
		}
		if !exists {
			return false, math.ZeroInt(), sdkerrors.Wrapf(types.ErrAccountDoesNotExist, "pool %d was never created", pool)
		}
		return true, math.ZeroInt(), nil
	}

	isPositive, magnitude := record.Value()
	return isPositive, magnitude, nil
}

// postDouble posts the same amount as a debit on one account and a credit on
// another, keeping every economic event balanced.
func (k *Keeper) postDouble(ctx context.Context, pool types.PoolId, debitAccount, creditAccount types.AccountId, amount math.Int) error {
	if amount.IsNil() || amount.IsZero() {
		return nil
	}
	if err := k.Post(ctx, pool, debitAccount, amount, math.ZeroInt()); err != nil {
		return err
	}
	return k.Post(ctx, pool, creditAccount, math.ZeroInt(), amount)
}
