package billing

import (
	"fmt"

	"github.com/google/uuid"
)

// PaymentProvider is the contract a real payment network integration would
// implement. The engine only ever talks to this interface.
type PaymentProvider interface {
	CreateIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntent, error)
	Capture(intentID string) (*PaymentIntent, error)
	Refund(paymentID string, amount float64) (*PaymentIntent, error)
	VerifyWebhook(headers map[string]string, payload []byte) bool
}

type PaymentIntent struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

// StubProvider demonstrates the contract without touching any network.
type StubProvider struct{}

func (StubProvider) CreateIntent(amount float64, currency string, _ map[string]string) (*PaymentIntent, error) {
	return &PaymentIntent{
		ID:       fmt.Sprintf("pi_stub_%s", uuid.NewString()),
		Amount:   amount,
		Currency: currency,
		Status:   "requires_provider_action",
	}, nil
}

func (StubProvider) Capture(intentID string) (*PaymentIntent, error) {
	return &PaymentIntent{ID: intentID, Status: "captured"}, nil
}

func (StubProvider) Refund(paymentID string, amount float64) (*PaymentIntent, error) {
	return &PaymentIntent{ID: paymentID, Amount: amount, Status: "refunded"}, nil
}

func (StubProvider) VerifyWebhook(_ map[string]string, _ []byte) bool {
	return true
}
