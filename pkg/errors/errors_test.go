package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

var (
	errInner = errors.New("inner")
	errPlain = errors.New("plain error")
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, dapperr.ExitSuccess},
		{"general error", dapperr.ErrGeneral, dapperr.ExitGeneral},
		{"input error", dapperr.ErrInvalidInput, dapperr.ExitInput},
		{"no wallet", dapperr.ErrNoWallet, dapperr.ExitWallet},
		{"unsupported network", dapperr.ErrUnsupportedNetwork, dapperr.ExitNotFound},
		{"contract not found", dapperr.ErrContractNotFound, dapperr.ExitNotFound},
		{"tx rejected", dapperr.ErrTxRejected, dapperr.ExitRejected},
		{"plain error", errPlain, dapperr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, dapperr.ExitCode(tt.err))
		})
	}
}

func TestWrapPreservesIdentity(t *testing.T) {
	t.Parallel()

	wrapped := dapperr.Wrap(dapperr.ErrContractNotFound, "chain 137")
	require.ErrorIs(t, wrapped, dapperr.ErrContractNotFound)
	assert.Equal(t, dapperr.ExitNotFound, dapperr.ExitCode(wrapped))
	assert.Equal(t, "CONTRACT_NOT_FOUND", dapperr.Code(wrapped))

	assert.NoError(t, dapperr.Wrap(nil, "nothing"))
}

func TestWrapPlainError(t *testing.T) {
	t.Parallel()

	wrapped := dapperr.Wrap(errInner, "reading %s", "config")
	assert.Equal(t, "reading config: inner", wrapped.Error())
	require.ErrorIs(t, wrapped, errInner)
	assert.Equal(t, "GENERAL_ERROR", dapperr.Code(wrapped))
}

func TestWithCause(t *testing.T) {
	t.Parallel()

	err := dapperr.WithCause(dapperr.ErrConnection, errInner)
	require.ErrorIs(t, err, dapperr.ErrConnection)
	require.ErrorIs(t, err, errInner)
	assert.Equal(t, "wallet connection failed: inner", err.Error())

	assert.Same(t, dapperr.ErrConnection, dapperr.WithCause(dapperr.ErrConnection, nil))
}

func TestWithDetailsSortsKeys(t *testing.T) {
	t.Parallel()

	err := dapperr.WithDetails(dapperr.ErrUnsupportedNetwork, map[string]string{
		"name":     "goerli",
		"chain_id": "5",
	})
	assert.Equal(t, "Unsupported network! (chain_id: 5) (name: goerli)", err.Error())
	require.ErrorIs(t, err, dapperr.ErrUnsupportedNetwork)
}

func TestWithSuggestion(t *testing.T) {
	t.Parallel()

	err := dapperr.WithSuggestion(dapperr.ErrNotReady, "run connect first")
	var de *dapperr.DappError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "run connect first", de.Suggestion)

	plain := dapperr.WithSuggestion(errPlain, "retry")
	require.ErrorAs(t, plain, &de)
	assert.Equal(t, "plain error", de.Message)
	assert.Equal(t, "retry", de.Suggestion)
}

func TestNewError(t *testing.T) {
	t.Parallel()

	err := dapperr.New("CUSTOM", "custom message")
	assert.Equal(t, "custom message", err.Error())
	assert.Equal(t, dapperr.ExitGeneral, err.ExitCode)
	assert.False(t, errors.Is(err, dapperr.ErrGeneral))
}
