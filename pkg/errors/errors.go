// Package errors provides structured error handling for mintdapp.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitWallet   = 3 // No wallet, or the wallet refused the request
	ExitNotFound = 4 // Resource not found (contract, network, config)
	ExitRejected = 5 // Transaction rejected by the contract or provider
)

// DappError is the structured error type for mintdapp.
type DappError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *DappError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *DappError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for DappError.
func (e *DappError) Is(target error) bool {
	var t *DappError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &DappError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &DappError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &DappError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// Environment errors.
	ErrNoWallet = &DappError{
		Code:     "NO_WALLET",
		Message:  "no compatible wallet detected",
		ExitCode: ExitWallet,
	}

	// Connection errors.
	ErrConnection = &DappError{
		Code:     "CONNECTION_FAILED",
		Message:  "wallet connection failed",
		ExitCode: ExitWallet,
	}

	ErrWalletLocked = &DappError{
		Code:     "WALLET_LOCKED",
		Message:  "wallet is locked",
		ExitCode: ExitWallet,
	}

	ErrNetworkError = &DappError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	// Network-mismatch errors.
	ErrUnsupportedNetwork = &DappError{
		Code:       "UNSUPPORTED_NETWORK",
		Message:    "Unsupported network!",
		Suggestion: "switch your wallet to the collection's mainnet or testnet",
		ExitCode:   ExitNotFound,
	}

	// Contract-absence errors.
	ErrContractNotFound = &DappError{
		Code:     "CONTRACT_NOT_FOUND",
		Message:  "Could not find the contract, are you connected to the right chain?",
		ExitCode: ExitNotFound,
	}

	ErrContractRead = &DappError{
		Code:     "CONTRACT_READ_FAILED",
		Message:  "reading contract state failed",
		ExitCode: ExitGeneral,
	}

	// Transaction errors.
	ErrTxRejected = &DappError{
		Code:     "TX_REJECTED",
		Message:  "transaction rejected",
		ExitCode: ExitRejected,
	}

	ErrNotReady = &DappError{
		Code:       "NOT_READY",
		Message:    "the collection is not ready for minting",
		Suggestion: "connect your wallet and wait for the collection data to load",
		ExitCode:   ExitInput,
	}

	ErrReloadSuperseded = &DappError{
		Code:     "RELOAD_SUPERSEDED",
		Message:  "reload superseded by a newer one",
		ExitCode: ExitGeneral,
	}

	ErrInvalidMintAmount = &DappError{
		Code:     "INVALID_MINT_AMOUNT",
		Message:  "mint amount must be at least 1",
		ExitCode: ExitInput,
	}

	// Config-specific errors.
	ErrConfigNotFound = &DappError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &DappError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrInvalidAddress = &DappError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	// Keystore errors.
	ErrKeystoreNotFound = &DappError{
		Code:       "KEYSTORE_NOT_FOUND",
		Message:    "local wallet keystore not found",
		Suggestion: "create one with 'mintdapp wallet create' or import with 'mintdapp wallet import'",
		ExitCode:   ExitNotFound,
	}

	ErrKeystoreExists = &DappError{
		Code:     "KEYSTORE_EXISTS",
		Message:  "local wallet keystore already exists",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &DappError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted keystore",
		ExitCode: ExitWallet,
	}

	ErrInvalidMnemonic = &DappError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}
)

// New creates a new DappError with the given code and message.
func New(code, message string) *DappError {
	return &DappError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var de *DappError
	if errors.As(err, &de) {
		return &DappError{
			Code:       de.Code,
			Message:    fmt.Sprintf("%s: %s", msg, de.Message),
			Details:    de.Details,
			Suggestion: de.Suggestion,
			Cause:      err,
			ExitCode:   de.ExitCode,
		}
	}

	return &DappError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithCause attaches an underlying cause to a sentinel, keeping its code and message.
func WithCause(sentinel *DappError, cause error) error {
	if cause == nil {
		return sentinel
	}
	return &DappError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		Suggestion: sentinel.Suggestion,
		Cause:      cause,
		ExitCode:   sentinel.ExitCode,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var de *DappError
	if errors.As(err, &de) {
		return &DappError{
			Code:       de.Code,
			Message:    de.Message,
			Details:    details,
			Suggestion: de.Suggestion,
			Cause:      de.Cause,
			ExitCode:   de.ExitCode,
		}
	}

	return &DappError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var de *DappError
	if errors.As(err, &de) {
		return &DappError{
			Code:       de.Code,
			Message:    de.Message,
			Details:    de.Details,
			Suggestion: suggestion,
			Cause:      de.Cause,
			ExitCode:   de.ExitCode,
		}
	}

	return &DappError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var de *DappError
	if errors.As(err, &de) {
		return de.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var de *DappError
	if errors.As(err, &de) {
		return de.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
