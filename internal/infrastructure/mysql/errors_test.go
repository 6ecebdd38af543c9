package mysql

import (
	"errors"
	"fmt"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDeadlock(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &driver.MySQLError{Number: 1213}, true},
		{"lock wait timeout", &driver.MySQLError{Number: 1205}, true},
		{"wrapped deadlock", fmt.Errorf("inserting order: %w", &driver.MySQLError{Number: 1213}), true},
		{"duplicate entry", &driver.MySQLError{Number: 1062}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDeadlock(tt.err))
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	dup := &driver.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'RAY-20261018-AAAAAAAAAA' for key 'orders.orders_order_number_unique'",
	}

	assert.True(t, IsDuplicateKey(dup, ""))
	assert.True(t, IsDuplicateKey(dup, "orders_order_number_unique"))
	assert.True(t, IsDuplicateKey(fmt.Errorf("wrapped: %w", dup), "order_number"))
	assert.False(t, IsDuplicateKey(dup, "users_email_unique"))
	assert.False(t, IsDuplicateKey(&driver.MySQLError{Number: 1213}, ""))
	assert.False(t, IsDuplicateKey(errors.New("Duplicate entry"), ""))
}
