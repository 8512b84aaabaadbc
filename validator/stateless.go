// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validator

import (
	"net/url"
	"regexp"

	"github.com/EXCCoin/exccd/crypto"
	"github.com/EXCCoin/exccd/math/uint256"
	"github.com/EXCCoin/exccd/wire"
)

var (
	tokenNameRe = regexp.MustCompile(`^[A-Z0-9_]{1,16}$`)
	aliasRe     = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)
	zero        = uint256.Zero()
)

const minTargetMiningTimeMs = 5000

// Stateless performs every check that requires no database access. It
// never returns an error other than *Invalid.
func Stateless(tx *wire.Tx, maxTxSize int, verifier crypto.Verifier) error {
	if tx.Size() > maxTxSize {
		return invalid(ReasonTxTooLarge, "size %d exceeds max %d", tx.Size(), maxTxSize)
	}
	if tx.Fee == nil || tx.Fee.Cmp(zero) < 0 {
		return invalid(ReasonNegativeFee, "")
	}
	if tx.Amount != nil && tx.Amount.Cmp(zero) < 0 {
		return invalid(ReasonNegativeAmount, "")
	}
	if err := validatePayload(tx); err != nil {
		return err
	}
	if err := validateStructure(tx); err != nil {
		return err
	}

	sigBytes := tx.SigningBytes()
	hash := wire.ContentHash(sigBytes)
	recovered, err := verifier.RecoverAddress(hash, tx.Signature)
	if err != nil || recovered != tx.Sender {
		return invalid(ReasonInvalidSignature, "")
	}

	if tx.Recipient != nil && *tx.Recipient == tx.Sender {
		return invalid(ReasonSelfTransfer, "")
	}

	return nil
}

func validateStructure(tx *wire.Tx) error {
	switch tx.Type {
	case wire.TxTypeTransfer:
		if tx.Recipient == nil || tx.Amount == nil || tx.TokenAddress == nil {
			return invalid(ReasonStructuralMismatch, "TRANSFER requires recipient, amount, tokenAddress")
		}
		if tx.ReferenceHash != nil {
			return invalid(ReasonStructuralMismatch, "TRANSFER forbids referenceHash")
		}
	case wire.TxTypeBipCreate:
		if tx.Payload == nil {
			return invalid(ReasonStructuralMismatch, "BIP_CREATE requires a payload")
		}
		if tx.Recipient != nil || tx.Amount != nil || tx.ReferenceHash != nil {
			return invalid(ReasonStructuralMismatch, "BIP_CREATE forbids recipient, amount, referenceHash")
		}
	case wire.TxTypeBipVote:
		if tx.Payload == nil || tx.Payload.Type() != wire.PayloadVote || tx.ReferenceHash == nil {
			return invalid(ReasonStructuralMismatch, "BIP_VOTE requires a vote payload and a referenceHash")
		}
		if tx.Recipient != nil || tx.Amount != nil {
			return invalid(ReasonStructuralMismatch, "BIP_VOTE forbids recipient, amount")
		}
	default:
		return invalid(ReasonStructuralMismatch, "unrecognized tx type %d", tx.Type)
	}
	return nil
}

func validatePayload(tx *wire.Tx) error {
	if tx.Payload == nil {
		return nil
	}
	switch p := tx.Payload.(type) {
	case *wire.TokenCreatePayload:
		if !tokenNameRe.MatchString(p.Name) {
			return invalid(ReasonMalformedPayload, "token name %q invalid", p.Name)
		}
		if !tokenNameRe.MatchString(p.SmallestUnitName) {
			return invalid(ReasonMalformedPayload, "smallest unit name %q invalid", p.SmallestUnitName)
		}
		if p.Decimals > 18 {
			return invalid(ReasonMalformedPayload, "decimals %d exceeds 18", p.Decimals)
		}
		for _, u := range p.URLs {
			if _, err := url.ParseRequestURI(u); err != nil {
				return invalid(ReasonMalformedPayload, "url %q invalid", u)
			}
		}
	case *wire.AliasRegisterPayload:
		if !aliasRe.MatchString(p.Alias) {
			return invalid(ReasonMalformedPayload, "alias %q invalid", p.Alias)
		}
	case *wire.NetworkParamsSetPayload:
		if p.TargetMiningTimeMs < minTargetMiningTimeMs {
			return invalid(ReasonMalformedPayload, "targetMiningTimeMs %d below minimum %d", p.TargetMiningTimeMs, minTargetMiningTimeMs)
		}
	}
	return nil
}
