package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creser-psicologia/creser-api/internal/httperr"
)

func TestPackageGrants(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   []CreditGrant
	}{
		{
			"eight sessions at the top tier",
			500000,
			[]CreditGrant{{ServiceCode: CodeIndividualPsychotherapy, Quantity: 8}},
		},
		{
			"above the top tier still eight",
			750000,
			[]CreditGrant{{ServiceCode: CodeIndividualPsychotherapy, Quantity: 8}},
		},
		{
			"four sessions at the mid tier",
			260000,
			[]CreditGrant{{ServiceCode: CodeIndividualPsychotherapy, Quantity: 4}},
		},
		{
			"just below the top tier buys mid",
			499999,
			[]CreditGrant{{ServiceCode: CodeIndividualPsychotherapy, Quantity: 4}},
		},
		{
			"below the mid tier buys the evaluation bundle",
			259999,
			[]CreditGrant{
				{ServiceCode: CodeIndividualAssessment, Quantity: 1},
				{ServiceCode: CodeEvaluationSession, Quantity: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageGrants(tt.amount))
		})
	}
}

func TestIndividualQuantity(t *testing.T) {
	qty, err := IndividualQuantity(210000, 70000)
	require.NoError(t, err)
	assert.Equal(t, 3, qty)

	// Remainders are dropped, not refunded.
	qty, err = IndividualQuantity(150000, 70000)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)

	_, err = IndividualQuantity(50000, 70000)
	assert.True(t, httperr.IsBusiness(err, "amount_below_service_price"))

	_, err = IndividualQuantity(70000, 0)
	assert.True(t, httperr.IsBusiness(err, "invalid_service_price"))
}

func TestParsePurchaseType(t *testing.T) {
	for _, s := range []string{"individual", "paquete"} {
		got, err := ParsePurchaseType(s)
		require.NoError(t, err)
		assert.Equal(t, PurchaseType(s), got)
	}

	_, err := ParsePurchaseType("bundle")
	assert.True(t, httperr.IsBusiness(err, "invalid_purchase_type"))
}

func TestCanResolve(t *testing.T) {
	assert.NoError(t, CanResolve(StatusPending))
	assert.True(t, httperr.IsBusiness(CanResolve(StatusApproved), "payment_already_processed"))
	assert.True(t, httperr.IsBusiness(CanResolve(StatusRejected), "payment_already_processed"))
}
