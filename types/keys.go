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

var (
	PoolPrefix                 = []byte("pools/pool/")
	ShareClassPrefix           = []byte("pools/share_class/")
	EpochIdsPrefix             = []byte("pools/epoch_ids/")
	EpochInvestPrefix          = []byte("pools/epoch_invest/")
	EpochRedeemPrefix          = []byte("pools/epoch_redeem/")
	EpochAdvancePrefix         = []byte("pools/epoch_advance/")
	DepositRequestPrefix       = []byte("pools/deposit_request/")
	RedeemRequestPrefix        = []byte("pools/redeem_request/")
	QueuedDepositRequestPrefix = []byte("pools/queued_deposit_request/")
	QueuedRedeemRequestPrefix  = []byte("pools/queued_redeem_request/")
	PendingDepositPrefix       = []byte("pools/pending_deposit/")
	PendingRedeemPrefix        = []byte("pools/pending_redeem/")
	HoldingPrefix              = []byte("pools/holding/")
	HoldingAccountsPrefix      = []byte("pools/holding_accounts/")
	AccountPrefix              = []byte("pools/account/")
	UserSharesPrefix           = []byte("pools/user_shares/")
	QueuedSharesPrefix         = []byte("pools/queued_shares/")
	QueuedAssetsPrefix         = []byte("pools/queued_assets/")
)
