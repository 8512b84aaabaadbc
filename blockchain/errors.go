// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2018 The ExchangeCoin team
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockchain implements the Chain Engine: block header and
// transaction validation, atomic application of blocks to the World
// State, fork choice, and atomic chain reorganization.
package blockchain

import "fmt"

// ErrorCode identifies a class of rule violation raised while connecting
// or disconnecting a block.
type ErrorCode int

// Supported error codes.
const (
	ErrMissingParent ErrorCode = iota
	ErrBadTimestamp
	ErrBadDifficulty
	ErrBadCoinbaseSignature
	ErrBlockTooLarge
	ErrTooManyTransactions
	ErrInvalidTransaction
	ErrBadStateRoot
	ErrBadTxRoot
	ErrBadProofOfWork
)

func (c ErrorCode) String() string {
	switch c {
	case ErrMissingParent:
		return "ErrMissingParent"
	case ErrBadTimestamp:
		return "ErrBadTimestamp"
	case ErrBadDifficulty:
		return "ErrBadDifficulty"
	case ErrBadCoinbaseSignature:
		return "ErrBadCoinbaseSignature"
	case ErrBlockTooLarge:
		return "ErrBlockTooLarge"
	case ErrTooManyTransactions:
		return "ErrTooManyTransactions"
	case ErrInvalidTransaction:
		return "ErrInvalidTransaction"
	case ErrBadStateRoot:
		return "ErrBadStateRoot"
	case ErrBadTxRoot:
		return "ErrBadTxRoot"
	case ErrBadProofOfWork:
		return "ErrBadProofOfWork"
	default:
		return "ErrUnknown"
	}
}

// RuleError identifies a block or transaction that violates a consensus
// rule. The chain remains on its previous tip whenever a RuleError is
// returned from connect_block or execute_atomic_reorg_swap.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

func (e RuleError) Error() string { return e.Description }

func ruleError(c ErrorCode, format string, args ...interface{}) RuleError {
	return RuleError{ErrorCode: c, Description: fmt.Sprintf(format, args...)}
}
