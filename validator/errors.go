// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package validator implements stateless and stateful transaction
// validation: the rules a Tx must satisfy on its own, and the
// additional rules it must satisfy against a World State snapshot.
package validator

import "fmt"

// Reason enumerates every way a transaction can fail validation.
type Reason uint8

// Supported failure reasons.
const (
	ReasonTxTooLarge Reason = iota + 1
	ReasonNegativeFee
	ReasonNegativeAmount
	ReasonMalformedPayload
	ReasonStructuralMismatch
	ReasonInvalidSignature
	ReasonSelfTransfer
	ReasonBadNonce
	ReasonInsufficientFeeBalance
	ReasonInsufficientTransferBalance
	ReasonFeeTooLow
	ReasonNotAuthority
	ReasonBipNotFound
	ReasonBipNotPending
	ReasonBipExpired
	ReasonAlreadyVoted
	ReasonDuplicateToken
	ReasonDuplicateAlias
	ReasonDuplicateAuthority
)

func (r Reason) String() string {
	switch r {
	case ReasonTxTooLarge:
		return "tx too large"
	case ReasonNegativeFee:
		return "negative fee"
	case ReasonNegativeAmount:
		return "negative amount"
	case ReasonMalformedPayload:
		return "malformed payload"
	case ReasonStructuralMismatch:
		return "structural field mismatch for tx type"
	case ReasonInvalidSignature:
		return "invalid signature"
	case ReasonSelfTransfer:
		return "sender equals recipient"
	case ReasonBadNonce:
		return "bad nonce"
	case ReasonInsufficientFeeBalance:
		return "insufficient balance to cover fee"
	case ReasonInsufficientTransferBalance:
		return "insufficient balance to cover transfer amount"
	case ReasonFeeTooLow:
		return "fee below minimum acceptable"
	case ReasonNotAuthority:
		return "sender is not a current authority"
	case ReasonBipNotFound:
		return "referenced BIP does not exist"
	case ReasonBipNotPending:
		return "referenced BIP is not pending"
	case ReasonBipExpired:
		return "referenced BIP has expired"
	case ReasonAlreadyVoted:
		return "sender has already voted on this BIP"
	case ReasonDuplicateToken:
		return "token name already registered"
	case ReasonDuplicateAlias:
		return "alias already registered"
	case ReasonDuplicateAuthority:
		return "address is already an authority"
	default:
		return "unknown reason"
	}
}

// Invalid is returned by Stateless/Stateful validation when a Tx fails
// any rule; it always carries exactly one Reason.
type Invalid struct {
	Reason Reason
	Detail string
}

func (e *Invalid) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("validator: invalid tx: %s", e.Reason)
	}
	return fmt.Sprintf("validator: invalid tx: %s: %s", e.Reason, e.Detail)
}

func invalid(r Reason, format string, args ...interface{}) *Invalid {
	return &Invalid{Reason: r, Detail: fmt.Sprintf(format, args...)}
}
