package notify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBalanceLine(t *testing.T) {
	tests := []struct {
		balance string
		want    string
	}{
		{"25", "You now owe Sam 25.00."},
		{"-7.5", "Sam now owes you 7.50."},
		{"0", "You and Sam are settled up."},
	}
	for _, tt := range tests {
		t.Run(tt.balance, func(t *testing.T) {
			assert.Equal(t, tt.want, balanceLine("Sam", decimal.RequireFromString(tt.balance)))
		})
	}
}

func TestSignupCodeMessage(t *testing.T) {
	msg := SignupCodeMessage("a@example.com", "Alex", "123456", "10m0s")
	assert.Equal(t, "a@example.com", msg.To)
	assert.Contains(t, msg.Body, "123456")
	assert.Contains(t, msg.Body, "10m0s")
}
