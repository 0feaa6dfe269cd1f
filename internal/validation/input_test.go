package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount("сумма", 1.5))
	assert.Error(t, ValidateAmount("сумма", 0))
	assert.Error(t, ValidateAmount("сумма", -3))
	assert.Error(t, ValidateAmount("сумма", MaxAmount+1))
}

func TestValidateWalletAddress(t *testing.T) {
	valid := "0x" + strings.Repeat("ab12", 16)
	assert.NoError(t, ValidateWalletAddress(valid))

	assert.Error(t, ValidateWalletAddress(""))
	assert.Error(t, ValidateWalletAddress("ab12"))
	assert.Error(t, ValidateWalletAddress("0x"+strings.Repeat("a", 63)))
	assert.Error(t, ValidateWalletAddress("0x"+strings.Repeat("a", 65)))
	assert.Error(t, ValidateWalletAddress("0x"+strings.Repeat("g", 64)))
}

func TestValidateTxDigest(t *testing.T) {
	assert.NoError(t, ValidateTxDigest("FhQzGmSyxkZ8QpYq"))
	assert.Error(t, ValidateTxDigest(""))
	assert.Error(t, ValidateTxDigest("   "))
	assert.Error(t, ValidateTxDigest(strings.Repeat("a", MaxProofLength+1)))
	assert.Error(t, ValidateTxDigest("bad\ndigest"))
}

func TestValidateNotes(t *testing.T) {
	assert.NoError(t, ValidateNotes("выплата подтверждена"))
	assert.Error(t, ValidateNotes(strings.Repeat("а", MaxNotesLength+1)))
}
