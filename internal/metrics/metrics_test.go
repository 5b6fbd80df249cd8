package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBooking(t *testing.T) {
	before := testutil.ToFloat64(BookingsTotal.WithLabelValues("taxi", "wallet"))
	RecordBooking("taxi", "wallet")
	after := testutil.ToFloat64(BookingsTotal.WithLabelValues("taxi", "wallet"))
	assert.Equal(t, before+1, after)
}

func TestRecordWalletTopUp(t *testing.T) {
	before := testutil.ToFloat64(WalletTopUpsTotal.WithLabelValues("completed"))
	RecordWalletTopUp("completed")
	after := testutil.ToFloat64(WalletTopUpsTotal.WithLabelValues("completed"))
	assert.Equal(t, before+1, after)
}

func TestRecordWalletTransferLeak(t *testing.T) {
	before := testutil.ToFloat64(WalletTransferLeaksTotal)
	RecordWalletTransferLeak()
	after := testutil.ToFloat64(WalletTransferLeaksTotal)
	assert.Equal(t, before+1, after)
}
