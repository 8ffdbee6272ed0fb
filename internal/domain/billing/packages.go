package billing

import "github.com/creser-psicologia/creser-api/internal/httperr"

// Service codes referenced by the issuance rules. Seeded in internal/db.
const (
	CodeIndividualPsychotherapy = "PSI-IND"
	CodeIndividualAssessment    = "VAL-IND"
	CodeEvaluationSession       = "EVA-SES"
)

// CreditGrant is one credit to be issued for an approved payment.
type CreditGrant struct {
	ServiceCode string
	Quantity    int
}

// Package tier amounts. Amounts at or above a tier buy that tier.
const (
	amountPsychotherapy8 = 500000
	amountPsychotherapy4 = 260000
)

var packageTiers = map[string][]CreditGrant{
	"psicoterapia_8": {
		{ServiceCode: CodeIndividualPsychotherapy, Quantity: 8},
	},
	"psicoterapia_4": {
		{ServiceCode: CodeIndividualPsychotherapy, Quantity: 4},
	},
	"evaluacion_completa": {
		{ServiceCode: CodeIndividualAssessment, Quantity: 1},
		{ServiceCode: CodeEvaluationSession, Quantity: 4},
	},
}

// PackageGrants resolves a package purchase to its credit grants by amount.
func PackageGrants(amount float64) []CreditGrant {
	switch {
	case amount >= amountPsychotherapy8:
		return packageTiers["psicoterapia_8"]
	case amount >= amountPsychotherapy4:
		return packageTiers["psicoterapia_4"]
	default:
		return packageTiers["evaluacion_completa"]
	}
}

// IndividualQuantity computes how many sessions an individual purchase buys
// for a service priced at unitPrice.
func IndividualQuantity(amount, unitPrice float64) (int, error) {
	if unitPrice <= 0 {
		return 0, httperr.ErrBusiness("invalid_service_price")
	}
	qty := int(amount / unitPrice)
	if qty <= 0 {
		return 0, httperr.ErrBusiness("amount_below_service_price")
	}
	return qty, nil
}
