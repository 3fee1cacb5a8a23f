package domain

import "errors"

var (
	// ErrInvalidOutcome indica aposta ou sorteio com outcome fora do conjunto ativo
	ErrInvalidOutcome = errors.New("invalid outcome")
	// ErrInsufficientBalance indica que o total apostado passaria do saldo
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidRoundState indica mutação com a rodada travada (ou settle fora do lock)
	ErrInvalidRoundState = errors.New("invalid round state")
	// ErrDuplicateSettlement indica rodada já liquidada (no-op idempotente)
	ErrDuplicateSettlement = errors.New("duplicate settlement")
	ErrInvalidStake        = errors.New("invalid stake")
	ErrNoWagers            = errors.New("no wagers placed")
)
