package handlers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())
	// Repeated calls report the first outcome.
	require.NoError(t, RegisterValidators())
}

func TestRegisterValidators_RejectsForeignEngine(t *testing.T) {
	err := registerValidators(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not *validator.Validate")
}

func TestRegisterValidators_BindsTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerValidators(v))

	type line struct {
		Amount   string `validate:"decimal4"`
		Quantity string `validate:"quantity"`
		TaxMode  string `validate:"taxmode"`
	}
	tests := []struct {
		name  string
		in    line
		valid bool
	}{
		{"all set", line{"10.50", "2", "EXCLUSIVE"}, true},
		{"empty amount and quantity", line{"", "", "INCLUSIVE"}, true},
		{"trailing zeros", line{"1.500000", "1.500000", "EXCLUSIVE"}, true},
		{"five places", line{"1.00001", "1", "EXCLUSIVE"}, false},
		{"past storage range", line{"1000000000000000", "1", "EXCLUSIVE"}, false},
		{"zero quantity", line{"1", "0", "EXCLUSIVE"}, false},
		{"negative quantity", line{"1", "-2", "EXCLUSIVE"}, false},
		{"unknown mode", line{"1", "1", "GROSS"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
