package dealership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(t *testing.T) *StockTransfer {
	t.Helper()
	x, err := NewStockTransfer(10, 1, 2, "usr_initiator", "surplus stock")
	require.NoError(t, err)
	return x
}

func TestNewStockTransfer(t *testing.T) {
	x := newTestTransfer(t)

	assert.NotEmpty(t, x.SID())
	assert.Equal(t, TransferPending, x.Status())
	assert.Equal(t, uint(1), x.FromTenantID())
	assert.Equal(t, uint(2), x.ToTenantID())
	assert.Nil(t, x.ResolvedAt())
}

func TestNewStockTransfer_Validation(t *testing.T) {
	_, err := NewStockTransfer(0, 1, 2, "usr_x", "")
	assert.Error(t, err)

	_, err = NewStockTransfer(10, 0, 2, "usr_x", "")
	assert.Error(t, err)

	_, err = NewStockTransfer(10, 1, 1, "usr_x", "")
	assert.Error(t, err, "source and destination must differ")

	_, err = NewStockTransfer(10, 1, 2, "", "")
	assert.Error(t, err)
}

func TestStockTransfer_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		resolve func(*StockTransfer) error
		want    TransferStatus
	}{
		{"accept", func(x *StockTransfer) error { return x.Accept("usr_dest") }, TransferAccepted},
		{"reject", func(x *StockTransfer) error { return x.Reject("usr_dest") }, TransferRejected},
		{"cancel", func(x *StockTransfer) error { return x.Cancel("usr_src") }, TransferCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := newTestTransfer(t)
			require.NoError(t, tt.resolve(x))

			assert.Equal(t, tt.want, x.Status())
			assert.True(t, x.Status().IsTerminal())
			assert.NotEmpty(t, x.ResolvedBy())
			require.NotNil(t, x.ResolvedAt())

			// Terminal transfers cannot be resolved again.
			assert.Error(t, x.Accept("usr_again"))
			assert.Error(t, x.Reject("usr_again"))
			assert.Error(t, x.Cancel("usr_again"))
		})
	}
}

func TestStockTransfer_ResolveRequiresResolver(t *testing.T) {
	x := newTestTransfer(t)
	assert.Error(t, x.Accept(""))
	assert.Equal(t, TransferPending, x.Status())
}
