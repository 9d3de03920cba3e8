package infra

import (
	"context"

	"github.com/solucionesrptech/pasteleria-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MockPaymentProvider simulates settlement: every charge succeeds with
// status PAID. It sits behind the circuit breaker so that swapping in a real
// provider later changes nothing in the order coordinator, and so the health
// endpoint can report the breaker state either way.
type MockPaymentProvider struct {
	cb *CircuitBreaker
}

func NewMockPaymentProvider(cb *CircuitBreaker) *MockPaymentProvider {
	return &MockPaymentProvider{cb: cb}
}

// Charge records a simulated payment. Returns the provider tag and status
// to be persisted on the Payment row.
func (p *MockPaymentProvider) Charge(ctx context.Context, orderID uuid.UUID, amountCLP int) (provider, status string, err error) {
	execErr := p.cb.Execute(func() error {
		// A real provider call goes here.
		return nil
	})
	if execErr != nil {
		return "", "", execErr
	}
	log.Debug().
		Str("order_id", orderID.String()).
		Int("amount_clp", amountCLP).
		Msg("mock payment charged")
	return model.PaymentProviderMock, model.PaymentStatusPaid, nil
}

// BreakerState exposes the breaker for the health endpoint.
func (p *MockPaymentProvider) BreakerState() CBState { return p.cb.State() }
