package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dapperr "github.com/capnganj/PoisonToadsDapp/pkg/errors"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateMnemonic(t *testing.T) {
	t.Parallel()

	for _, count := range []int{12, 24} {
		mnemonic, err := GenerateMnemonic(count)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(mnemonic), count)
		require.NoError(t, ValidateMnemonic(mnemonic))
	}

	_, err := GenerateMnemonic(15)
	require.ErrorIs(t, err, dapperr.ErrInvalidInput)
}

func TestValidateMnemonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid", testMnemonic, true},
		{"valid with numbering", "1. abandon\n2. abandon\n3. abandon\n4. abandon\n5. abandon\n6. abandon\n7. abandon\n8. abandon\n9. abandon\n10. abandon\n11. abandon\n12. about", true},
		{"valid upper case with commas", strings.ToUpper(strings.ReplaceAll(testMnemonic, " ", ", ")), true},
		{"empty", "", false},
		{"wrong count", "abandon abandon abandon", false},
		{"bad checksum", strings.Repeat("abandon ", 12), false},
		{"typo", strings.Replace(testMnemonic, "about", "abuot", 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateMnemonic(tt.mnemonic)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, dapperr.ErrInvalidMnemonic)
			}
		})
	}
}

func TestValidateMnemonicTypoSuggestion(t *testing.T) {
	t.Parallel()

	err := ValidateMnemonic(strings.Replace(testMnemonic, "about", "abuot", 1))

	var de *dapperr.DappError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Suggestion, "word 12: 'abuot' - did you mean 'about'?")
}

func TestNormalizeMnemonicInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "one two three", NormalizeMnemonicInput("  One,Two\n\tTHREE  "))
	assert.Equal(t, "one two", NormalizeMnemonicInput("- one\n* two"))
}

func TestMnemonicToSeed(t *testing.T) {
	t.Parallel()

	seed, err := MnemonicToSeed(testMnemonic, "TREZOR")
	require.NoError(t, err)
	assert.Equal(t,
		"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		hex.EncodeToString(seed))

	_, err = MnemonicToSeed("not a mnemonic", "")
	require.ErrorIs(t, err, dapperr.ErrInvalidMnemonic)
}

func TestSuggestWord(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "about", SuggestWord("about"))
	assert.Equal(t, "about", SuggestWord("abuot"))
	assert.Empty(t, SuggestWord("qqqqqqqqqq"))
	assert.True(t, IsValidWord("Zoo"))
	assert.False(t, IsValidWord("zooo"))
}

func TestDetectTypos(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DetectTypos(testMnemonic))

	typos := DetectTypos("abandon xyzzyq abandn")
	require.Len(t, typos, 2)
	assert.Equal(t, 1, typos[0].Index)
	assert.Empty(t, typos[0].Suggestion)
	assert.Equal(t, "abandon", typos[1].Suggestion)
	assert.Equal(t, 1, typos[1].Distance)

	assert.Equal(t,
		"word 2: 'xyzzyq' is not a valid BIP39 word\nword 3: 'abandn' - did you mean 'abandon'?",
		FormatTypoSuggestions(typos))
}
