package services

import (
	"fmt"
	"os"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// PaymentVerifier answers the one question checkout asks of the payment
// processor: what is the current status of this payment intent?
type PaymentVerifier interface {
	IntentStatus(paymentIntentID string) (string, error)
}

// Payments is the process-wide verifier; tests swap in a stub.
var Payments PaymentVerifier = stripeVerifier{}

// PaymentSucceeded is the only intent status that lets a checkout
// complete as paid.
const PaymentSucceeded = string(stripe.PaymentIntentStatusSucceeded)

func InitializePayments() {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
}

type stripeVerifier struct{}

func (stripeVerifier) IntentStatus(paymentIntentID string) (string, error) {
	pi, err := paymentintent.Get(paymentIntentID, nil)
	if err != nil {
		return "", fmt.Errorf("retrieve payment intent %s: %w", paymentIntentID, err)
	}
	return string(pi.Status), nil
}
