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

import "cosmossdk.io/errors"

var (
	ErrZeroAmount            = errors.Register(ModuleName, 1, "amount must be positive")
	ErrInsufficientBalance   = errors.Register(ModuleName, 2, "insufficient balance")
	ErrEpochNotFound         = errors.Register(ModuleName, 3, "epoch not found")
	ErrAccountDoesNotExist   = errors.Register(ModuleName, 4, "account does not exist")
	ErrPoolNotFound          = errors.Register(ModuleName, 5, "pool not found")
	ErrShareClassNotFound    = errors.Register(ModuleName, 6, "share class not found")
	ErrHoldingNotFound       = errors.Register(ModuleName, 7, "holding not found")
	ErrAlreadyApproved       = errors.Register(ModuleName, 8, "epoch already approved in this batch")
	ErrAlreadyIssued         = errors.Register(ModuleName, 9, "shares already issued in this batch")
	ErrAlreadyRevoked        = errors.Register(ModuleName, 10, "shares already revoked in this batch")
	ErrEpochNotInSequence    = errors.Register(ModuleName, 11, "epoch not in sequence")
	ErrNoPendingRequest      = errors.Register(ModuleName, 12, "no pending request")
	ErrCancellationInFlight  = errors.Register(ModuleName, 13, "cancellation already in flight")
	ErrPoolAlreadyExists     = errors.Register(ModuleName, 14, "pool already exists")
	ErrAccountAlreadyExists  = errors.Register(ModuleName, 15, "account already exists")
	ErrHoldingAlreadyExists  = errors.Register(ModuleName, 16, "holding already exists")
	ErrHoldingEscrowMismatch = errors.Register(ModuleName, 17, "holding does not match escrow balance")
	ErrShareClassExists      = errors.Register(ModuleName, 18, "share class already exists")
)
