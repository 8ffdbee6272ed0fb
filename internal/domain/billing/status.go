package billing

import "github.com/creser-psicologia/creser-api/internal/httperr"

// ===============================
// Payment Status
// ===============================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// CanResolve: only pending payments may be approved or rejected.
func CanResolve(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("payment_already_processed")
	}
	return nil
}

// ===============================
// Purchase type
// ===============================

type PurchaseType string

const (
	PurchaseIndividual PurchaseType = "individual"
	PurchasePackage    PurchaseType = "paquete"
)

func ParsePurchaseType(s string) (PurchaseType, error) {
	switch PurchaseType(s) {
	case PurchaseIndividual, PurchasePackage:
		return PurchaseType(s), nil
	}
	return "", httperr.ErrBusiness("invalid_purchase_type")
}

// ===============================
// Payment method
// ===============================

type Method string

const (
	MethodQR          Method = "qr"
	MethodTransfer    Method = "transfer"
	MethodMercadoPago Method = "mercadopago"
)

func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodQR, MethodTransfer, MethodMercadoPago:
		return Method(s), nil
	}
	return "", httperr.ErrBusiness("invalid_payment_method")
}
