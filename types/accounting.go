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

import "cosmossdk.io/math"

// AccountKind determines which side of an account is value-increasing.
type AccountKind uint8

const (
	AccountKindAsset AccountKind = iota
	AccountKindEquity
	AccountKindGain
	AccountKindLoss
)

// Account is a double-entry account. Totals only ever grow; the account value
// is derived from their difference according to the account kind.
type Account struct {
	TotalDebit  math.Int
	TotalCredit math.Int
	Kind        AccountKind
}

// ZeroAccount returns an initialized account of the given kind.
func ZeroAccount(kind AccountKind) Account {
	return Account{TotalDebit: math.ZeroInt(), TotalCredit: math.ZeroInt(), Kind: kind}
}

// IsDebitNormal reports whether debits increase the account value. Asset and
// Loss accounts are debit-normal, Equity and Gain accounts credit-normal.
func (k AccountKind) IsDebitNormal() bool {
	return k == AccountKindAsset || k == AccountKindLoss
}

// Value returns the account value as a sign flag plus magnitude. A zero value
// reports as positive.
func (a Account) Value() (isPositive bool, magnitude math.Int) {
	var value math.Int
	if a.Kind.IsDebitNormal() {
		value = a.TotalDebit.Sub(a.TotalCredit)
	} else {
		value = a.TotalCredit.Sub(a.TotalDebit)
	}
	if value.IsNegative() {
		return false, value.Neg()
	}
	return true, value
}

// HoldingAccounts maps a holding to its double-entry account group.
type HoldingAccounts struct {
	Asset  AccountId
	Equity AccountId
	Gain   AccountId
	Loss   AccountId
}

// Holding is the ledger's record of how much of an asset a pool is deemed to
// own for a share class, plus its valuation in pool currency. AssetAmount
// reconciles against the real escrow balance whenever PricePerUnit is
// non-zero.
type Holding struct {
	AssetAmount  math.Int
	Value        math.Int
	PricePerUnit math.LegacyDec
}
