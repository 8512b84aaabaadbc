// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validator

import (
	"time"

	"github.com/EXCCoin/exccd/state"
	"github.com/EXCCoin/exccd/wire"
)

// NonceMode selects how strictly the nonce rule is enforced: the block
// connect path requires an exact match, while the mempool admission
// path allows bounded future-nonce gaps.
type NonceMode uint8

// Supported nonce enforcement modes.
const (
	NonceExact NonceMode = iota
	NonceAllowFutureGap
)

// StatefulOptions parameterizes Stateful for the two callers (block
// connect vs. mempool admission) that need slightly different rules.
type StatefulOptions struct {
	NonceMode     NonceMode
	MaxFutureGap  uint64
	Now           time.Time
	NativeToken   wire.Address
}

// Stateful validates tx against ws, the World State snapshot the
// transaction would be applied on top of. It performs no mutation.
func Stateful(tx *wire.Tx, ws *state.WorldState, opts StatefulOptions) error {
	nonceState, err := ws.GetNonce(tx.Sender)
	if err != nil {
		return err
	}
	switch opts.NonceMode {
	case NonceExact:
		if tx.Nonce != nonceState.Nonce+1 {
			return invalid(ReasonBadNonce, "expected %d, got %d", nonceState.Nonce+1, tx.Nonce)
		}
	case NonceAllowFutureGap:
		if tx.Nonce < nonceState.Nonce+1 || tx.Nonce > nonceState.Nonce+1+opts.MaxFutureGap {
			return invalid(ReasonBadNonce, "expected in [%d, %d], got %d", nonceState.Nonce+1, nonceState.Nonce+1+opts.MaxFutureGap, tx.Nonce)
		}
	}

	feeBalance, err := ws.GetBalance(tx.Sender, opts.NativeToken)
	if err != nil {
		return err
	}
	if feeBalance.Value().Cmp(tx.Fee) < 0 {
		return invalid(ReasonInsufficientFeeBalance, "")
	}

	switch tx.Type {
	case wire.TxTypeTransfer:
		transferBalance, err := ws.GetBalance(tx.Sender, *tx.TokenAddress)
		if err != nil {
			return err
		}
		required := tx.Amount
		if *tx.TokenAddress == opts.NativeToken {
			required = required.Add(tx.Fee)
		}
		if transferBalance.Value().Cmp(required) < 0 {
			return invalid(ReasonInsufficientTransferBalance, "")
		}

	case wire.TxTypeBipCreate:
		if err := validateBipCreateUniqueness(tx, ws); err != nil {
			return err
		}

	case wire.TxTypeBipVote:
		isAuthority, err := ws.IsAuthority(tx.Sender)
		if err != nil {
			return err
		}
		if !isAuthority {
			return invalid(ReasonNotAuthority, "")
		}
		bip, ok, err := ws.GetBip(*tx.ReferenceHash)
		if err != nil {
			return err
		}
		if !ok {
			return invalid(ReasonBipNotFound, "")
		}
		if bip.Status != state.BipStatusPending {
			return invalid(ReasonBipNotPending, "")
		}
		if opts.Now.UnixMilli() > bip.ExpiresAt {
			return invalid(ReasonBipExpired, "")
		}
		if bip.HasVoted(tx.Sender) {
			return invalid(ReasonAlreadyVoted, "")
		}
	}

	return nil
}

func validateBipCreateUniqueness(tx *wire.Tx, ws *state.WorldState) error {
	switch p := tx.Payload.(type) {
	case *wire.AliasRegisterPayload:
		if _, exists, err := ws.GetAlias(p.Alias); err != nil {
			return err
		} else if exists {
			return invalid(ReasonDuplicateAlias, "%s", p.Alias)
		}
	case *wire.AuthorityAddPayload:
		isAuthority, err := ws.IsAuthority(p.Address)
		if err != nil {
			return err
		}
		if isAuthority {
			return invalid(ReasonDuplicateAuthority, "")
		}
	}
	return nil
}
