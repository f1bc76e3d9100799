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
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"

	collcodec "cosmossdk.io/collections/codec"
	"cosmossdk.io/math"
)

// State record values are encoded with fixed-layout big-endian fields: 32
// bytes per amount, 32 bytes per price (the raw 18-decimal scaled integer),
// plus fixed-width scalars. The module ships no protobuf definitions, so the
// codecs are written out by hand.

const wordSize = 32

type recordWriter struct {
	buf []byte
}

func (w *recordWriter) word(v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("negative value %s in state record", v)
	}
	if v.BitLen() > wordSize*8 {
		return fmt.Errorf("value %s exceeds %d bits", v, wordSize*8)
	}
	word := make([]byte, wordSize)
	v.FillBytes(word)
	w.buf = append(w.buf, word...)
	return nil
}

func (w *recordWriter) amount(v math.Int) error {
	if v.IsNil() {
		v = math.ZeroInt()
	}
	return w.word(v.BigInt())
}

func (w *recordWriter) price(d math.LegacyDec) error {
	if d.IsNil() {
		d = math.LegacyZeroDec()
	}
	return w.word(d.BigInt())
}

func (w *recordWriter) uint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *recordWriter) uint64(v uint64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

func (w *recordWriter) int64(v int64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

func (w *recordWriter) bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *recordWriter) byte(v byte) {
	w.buf = append(w.buf, v)
}

func (w *recordWriter) string(s string) error {
	if len(s) > 1<<16-1 {
		return fmt.Errorf("string of length %d exceeds record limit", len(s))
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, uint16(len(s)))
	w.buf = append(w.buf, s...)
	return nil
}

type recordReader struct {
	buf []byte
	off int
	err error
}

func (r *recordReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = fmt.Errorf("state record truncated at offset %d", r.off)
		return nil
	}
	bz := r.buf[r.off : r.off+n]
	r.off += n
	return bz
}

func (r *recordReader) amount() math.Int {
	bz := r.take(wordSize)
	if r.err != nil {
		return math.ZeroInt()
	}
	return math.NewIntFromBigInt(new(big.Int).SetBytes(bz))
}

func (r *recordReader) price() math.LegacyDec {
	bz := r.take(wordSize)
	if r.err != nil {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDecFromBigIntWithPrec(new(big.Int).SetBytes(bz), math.LegacyPrecision)
}

func (r *recordReader) uint32() uint32 {
	bz := r.take(4)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(bz)
}

func (r *recordReader) uint64() uint64 {
	bz := r.take(8)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (r *recordReader) int64() int64 {
	return int64(r.uint64())
}

func (r *recordReader) bool() bool {
	bz := r.take(1)
	if r.err != nil {
		return false
	}
	return bz[0] == 1
}

func (r *recordReader) byte() byte {
	bz := r.take(1)
	if r.err != nil {
		return 0
	}
	return bz[0]
}

func (r *recordReader) string() string {
	n := r.take(2)
	if r.err != nil {
		return ""
	}
	bz := r.take(int(binary.BigEndian.Uint16(n)))
	if r.err != nil {
		return ""
	}
	return string(bz)
}

func (r *recordReader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("state record has %d trailing bytes", len(r.buf)-r.off)
	}
	return nil
}

// recordCodec adapts an encode/decode pair to the collections value codec
// interface. JSON is used for the genesis/debug representation only.
type recordCodec[T any] struct {
	typeName string
	encode   func(*recordWriter, T) error
	decode   func(*recordReader) T
}

func (c recordCodec[T]) Encode(value T) ([]byte, error) {
	w := &recordWriter{}
	if err := c.encode(w, value); err != nil {
		return nil, err
	}
	return w.buf, nil
}

func (c recordCodec[T]) Decode(b []byte) (T, error) {
	r := &recordReader{buf: b}
	value := c.decode(r)
	if err := r.finish(); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

func (c recordCodec[T]) EncodeJSON(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (c recordCodec[T]) DecodeJSON(b []byte) (T, error) {
	var value T
	err := json.Unmarshal(b, &value)
	return value, err
}

func (c recordCodec[T]) Stringify(value T) string {
	return fmt.Sprintf("%+v", value)
}

func (c recordCodec[T]) ValueType() string {
	return c.typeName
}

var PoolValue collcodec.ValueCodec[Pool] = recordCodec[Pool]{
	typeName: "pools.Pool",
	encode: func(w *recordWriter, v Pool) error {
		w.int64(v.CreatedAt)
		return w.string(v.Currency)
	},
	decode: func(r *recordReader) Pool {
		return Pool{CreatedAt: r.int64(), Currency: r.string()}
	},
}

var ShareClassValue collcodec.ValueCodec[ShareClass] = recordCodec[ShareClass]{
	typeName: "pools.ShareClass",
	encode: func(w *recordWriter, v ShareClass) error {
		w.uint64(v.PoolId)
		return w.amount(v.TotalIssuance)
	},
	decode: func(r *recordReader) ShareClass {
		return ShareClass{PoolId: r.uint64(), TotalIssuance: r.amount()}
	},
}

var EpochIdsValue collcodec.ValueCodec[EpochIds] = recordCodec[EpochIds]{
	typeName: "pools.EpochIds",
	encode: func(w *recordWriter, v EpochIds) error {
		w.uint32(v.Deposit)
		w.uint32(v.Issue)
		w.uint32(v.Redeem)
		w.uint32(v.Revoke)
		return nil
	},
	decode: func(r *recordReader) EpochIds {
		return EpochIds{Deposit: r.uint32(), Issue: r.uint32(), Redeem: r.uint32(), Revoke: r.uint32()}
	},
}

var EpochInvestValue collcodec.ValueCodec[EpochInvestAmounts] = recordCodec[EpochInvestAmounts]{
	typeName: "pools.EpochInvestAmounts",
	encode: func(w *recordWriter, v EpochInvestAmounts) error {
		for _, amount := range []math.Int{v.PendingAssetAmount, v.ApprovedAssetAmount, v.ApprovedPoolAmount, v.IssuedShareAmount} {
			if err := w.amount(amount); err != nil {
				return err
			}
		}
		if err := w.price(v.PricePoolPerAsset); err != nil {
			return err
		}
		if err := w.price(v.PricePoolPerShare); err != nil {
			return err
		}
		w.int64(v.IssuedAt)
		return nil
	},
	decode: func(r *recordReader) EpochInvestAmounts {
		return EpochInvestAmounts{
			PendingAssetAmount:  r.amount(),
			ApprovedAssetAmount: r.amount(),
			ApprovedPoolAmount:  r.amount(),
			IssuedShareAmount:   r.amount(),
			PricePoolPerAsset:   r.price(),
			PricePoolPerShare:   r.price(),
			IssuedAt:            r.int64(),
		}
	},
}

var EpochRedeemValue collcodec.ValueCodec[EpochRedeemAmounts] = recordCodec[EpochRedeemAmounts]{
	typeName: "pools.EpochRedeemAmounts",
	encode: func(w *recordWriter, v EpochRedeemAmounts) error {
		for _, amount := range []math.Int{v.PendingShareAmount, v.ApprovedShareAmount, v.RevokedShareAmount, v.PayoutAssetAmount} {
			if err := w.amount(amount); err != nil {
				return err
			}
		}
		if err := w.price(v.PricePoolPerAsset); err != nil {
			return err
		}
		if err := w.price(v.PricePoolPerShare); err != nil {
			return err
		}
		w.int64(v.RevokedAt)
		return nil
	},
	decode: func(r *recordReader) EpochRedeemAmounts {
		return EpochRedeemAmounts{
			PendingShareAmount:  r.amount(),
			ApprovedShareAmount: r.amount(),
			RevokedShareAmount:  r.amount(),
			PayoutAssetAmount:   r.amount(),
			PricePoolPerAsset:   r.price(),
			PricePoolPerShare:   r.price(),
			RevokedAt:           r.int64(),
		}
	},
}

var UserOrderValue collcodec.ValueCodec[UserOrder] = recordCodec[UserOrder]{
	typeName: "pools.UserOrder",
	encode: func(w *recordWriter, v UserOrder) error {
		if err := w.amount(v.Pending); err != nil {
			return err
		}
		w.uint32(v.LastUpdate)
		return nil
	},
	decode: func(r *recordReader) UserOrder {
		return UserOrder{Pending: r.amount(), LastUpdate: r.uint32()}
	},
}

var QueuedOrderValue collcodec.ValueCodec[QueuedOrder] = recordCodec[QueuedOrder]{
	typeName: "pools.QueuedOrder",
	encode: func(w *recordWriter, v QueuedOrder) error {
		w.bool(v.IsCancelling)
		return w.amount(v.Amount)
	},
	decode: func(r *recordReader) QueuedOrder {
		return QueuedOrder{IsCancelling: r.bool(), Amount: r.amount()}
	},
}

var HoldingValue collcodec.ValueCodec[Holding] = recordCodec[Holding]{
	typeName: "pools.Holding",
	encode: func(w *recordWriter, v Holding) error {
		if err := w.amount(v.AssetAmount); err != nil {
			return err
		}
		if err := w.amount(v.Value); err != nil {
			return err
		}
		return w.price(v.PricePerUnit)
	},
	decode: func(r *recordReader) Holding {
		return Holding{AssetAmount: r.amount(), Value: r.amount(), PricePerUnit: r.price()}
	},
}

var HoldingAccountsValue collcodec.ValueCodec[HoldingAccounts] = recordCodec[HoldingAccounts]{
	typeName: "pools.HoldingAccounts",
	encode: func(w *recordWriter, v HoldingAccounts) error {
		w.uint32(v.Asset)
		w.uint32(v.Equity)
		w.uint32(v.Gain)
		w.uint32(v.Loss)
		return nil
	},
	decode: func(r *recordReader) HoldingAccounts {
		return HoldingAccounts{Asset: r.uint32(), Equity: r.uint32(), Gain: r.uint32(), Loss: r.uint32()}
	},
}

var AccountValue collcodec.ValueCodec[Account] = recordCodec[Account]{
	typeName: "pools.Account",
	encode: func(w *recordWriter, v Account) error {
		if err := w.amount(v.TotalDebit); err != nil {
			return err
		}
		if err := w.amount(v.TotalCredit); err != nil {
			return err
		}
		w.byte(byte(v.Kind))
		return nil
	},
	decode: func(r *recordReader) Account {
		return Account{TotalDebit: r.amount(), TotalCredit: r.amount(), Kind: AccountKind(r.byte())}
	},
}

var QueuedSharesValue collcodec.ValueCodec[QueuedShares] = recordCodec[QueuedShares]{
	typeName: "pools.QueuedShares",
	encode: func(w *recordWriter, v QueuedShares) error {
		if err := w.amount(v.Delta); err != nil {
			return err
		}
		w.bool(v.IsPositive)
		w.uint32(v.QueuedAssetCounter)
		w.uint64(v.Nonce)
		return nil
	},
	decode: func(r *recordReader) QueuedShares {
		return QueuedShares{Delta: r.amount(), IsPositive: r.bool(), QueuedAssetCounter: r.uint32(), Nonce: r.uint64()}
	},
}

var QueuedAssetsValue collcodec.ValueCodec[QueuedAssets] = recordCodec[QueuedAssets]{
	typeName: "pools.QueuedAssets",
	encode: func(w *recordWriter, v QueuedAssets) error {
		if err := w.amount(v.Deposits); err != nil {
			return err
		}
		return w.amount(v.Withdrawals)
	},
	decode: func(r *recordReader) QueuedAssets {
		return QueuedAssets{Deposits: r.amount(), Withdrawals: r.amount()}
	},
}
