package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/rs/zerolog/log"

	"github.com/creser-psicologia/creser-api/internal/config"
)

// Gateway wraps the MercadoPago checkout integration. A nil *Gateway means
// online payments are disabled (no access token configured).
type Gateway struct {
	prefs    preference.Client
	payments mppayment.Client
	baseURL  string
}

func NewGateway(cfg *config.Config) *Gateway {
	if cfg.MPAccessToken == "" {
		return nil
	}

	mpCfg, err := mpconfig.New(cfg.MPAccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("mercadopago disabled: invalid configuration")
		return nil
	}

	return &Gateway{
		prefs:    preference.NewClient(mpCfg),
		payments: mppayment.NewClient(mpCfg),
		baseURL:  cfg.PublicBaseURL,
	}
}

func (g *Gateway) Enabled() bool {
	return g != nil
}

// CreatePreference opens a checkout for a purchase and returns the URL the
// client is redirected to. The payment reference travels as the external
// reference so the webhook can match it back.
func (g *Gateway) CreatePreference(
	ctx context.Context,
	reference string,
	concept string,
	amount float64,
) (string, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     concept,
				Quantity:  1,
				UnitPrice: amount,
			},
		},
		ExternalReference: reference,
		NotificationURL:   g.baseURL + "/api/payments/webhook/mercadopago",
	}

	pref, err := g.prefs.Create(ctx, req)
	if err != nil {
		return "", err
	}

	return pref.InitPoint, nil
}

// PaymentStatus fetches a MercadoPago payment and returns its status and
// external reference.
func (g *Gateway) PaymentStatus(
	ctx context.Context,
	paymentID int,
) (status string, externalReference string, err error) {

	p, err := g.payments.Get(ctx, paymentID)
	if err != nil {
		return "", "", err
	}

	return p.Status, p.ExternalReference, nil
}
