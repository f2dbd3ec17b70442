package checkout

import (
	"testing"

	pkgerrors "github.com/o-complex/storefront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "formatted", raw: "+7 (912) 345-67-89", want: "79123456789"},
		{name: "digits only", raw: "79123456789", want: "79123456789"},
		{name: "letters dropped", raw: "phone: 7-912-345-67-89", want: "79123456789"},
		{name: "non-ascii digits dropped", raw: "7912345٨٩", want: "7912345"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	digits, err := ValidatePhone("+7 (912) 345-67-89")
	require.NoError(t, err)
	assert.Equal(t, "79123456789", digits)

	// The Arabic-Indic digits pad the string to 11 bytes but only 9 digits
	// survive normalization, so the count check must reject it.
	for _, raw := range []string{"", "+7 912 345 67 8", "791234567890", "7912345٨٩"} {
		_, err := ValidatePhone(raw)
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}
