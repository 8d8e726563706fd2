// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/edark-import/marketplace-backend/internal/config"
	"github.com/edark-import/marketplace-backend/internal/models"
)

var ErrPaymentNotConfigured = errors.New("payment provider not configured")

// PaymentService wraps card payments through Stripe. Cash and bank transfer
// orders never touch it.
type PaymentService struct {
	cfg    config.PaymentConfig
	logger *logrus.Logger
}

func NewPaymentService(cfg config.PaymentConfig, logger *logrus.Logger) *PaymentService {
	if cfg.StripeSecretKey != "" {
		stripe.Key = cfg.StripeSecretKey
	}
	return &PaymentService{cfg: cfg, logger: logger}
}

func (s *PaymentService) Enabled() bool {
	return s.cfg.StripeSecretKey != ""
}

type PaymentIntentResult struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// CreateIntent registers a payment intent for an order. Stripe expects the
// amount in the currency's smallest unit (céntimos for PEN).
func (s *PaymentService) CreateIntent(order *models.Order) (*PaymentIntentResult, error) {
	if !s.Enabled() {
		return nil, ErrPaymentNotConfigured
	}

	amount := decimal.NewFromFloat(order.Total).Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(s.cfg.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("customer_email", order.Customer.Email)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"intent_id":    intent.ID,
		"amount":       amount,
	}).Info("Payment intent created")

	return &PaymentIntentResult{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.cfg.Currency,
	}, nil
}

// ConfirmPayment checks the intent succeeded on Stripe's side.
func (s *PaymentService) ConfirmPayment(intentID string) (bool, error) {
	if !s.Enabled() {
		return false, ErrPaymentNotConfigured
	}

	intent, err := paymentintent.Get(intentID, nil)
	if err != nil {
		return false, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}

	return intent.Status == stripe.PaymentIntentStatusSucceeded, nil
}
