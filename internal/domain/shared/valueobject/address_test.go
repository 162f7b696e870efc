package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	tests := []struct {
		name        string
		line1       string
		city        string
		state       string
		postalCode  string
		country     string
		wantErr     bool
		errContains string
	}{
		{
			name:       "complete address",
			line1:      "1 Market St",
			city:       "San Francisco",
			state:      "CA",
			postalCode: "94105",
			country:    "US",
		},
		{
			name:        "missing street line",
			city:        "San Francisco",
			state:       "CA",
			postalCode:  "94105",
			country:     "US",
			wantErr:     true,
			errContains: "address",
		},
		{
			name:        "whitespace only city",
			line1:       "1 Market St",
			city:        "   ",
			state:       "CA",
			postalCode:  "94105",
			country:     "US",
			wantErr:     true,
			errContains: "city",
		},
		{
			name:        "postal code too long",
			line1:       "1 Market St",
			city:        "San Francisco",
			state:       "CA",
			postalCode:  "941059410594105941059",
			country:     "US",
			wantErr:     true,
			errContains: "postal code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := NewAddress(tt.line1, tt.city, tt.state, tt.postalCode, tt.country)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.True(t, addr.IsComplete())
			assert.Equal(t, tt.city, addr.City())
		})
	}
}

func TestAddress_MissingFields(t *testing.T) {
	addr := UnvalidatedAddress("1 Market St", "", "CA", "", "US")
	assert.Equal(t, []string{"city", "zipCode"}, addr.MissingFields())
	assert.False(t, addr.IsComplete())
	assert.False(t, addr.IsEmpty())
	assert.True(t, Address{}.IsEmpty())
}

func TestAddress_String(t *testing.T) {
	addr := UnvalidatedAddress("1 Market St", "San Francisco", "CA", "94105", "US")
	assert.Equal(t, "1 Market St, San Francisco, CA 94105, US", addr.String())
}

func TestAddress_JSON(t *testing.T) {
	addr, err := NewAddress("1 Market St", "San Francisco", "CA", "94105", "US")
	require.NoError(t, err)

	data, err := json.Marshal(addr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"line1":"1 Market St","city":"San Francisco","state":"CA","postal_code":"94105","country":"US"}`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))

	var empty Address
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.IsEmpty())

	var partial Address
	assert.Error(t, json.Unmarshal([]byte(`{"city":"Paris"}`), &partial))
}
