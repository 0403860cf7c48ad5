// Package events announces finished tax calculations to other systems
// (invoicing, ERP sync). Publishing is best effort: callers log failures and
// carry on.
package events

import (
	"context"
	"time"
)

// CalculationCompleted is published after an order's taxes were calculated.
type CalculationCompleted struct {
	ID                string    `json:"id"`
	OccurredAt        time.Time `json:"ocorridoEm"`
	RequestID         string    `json:"requestId,omitempty"`
	CompanyID         string    `json:"empresaId"`
	ClientID          string    `json:"clienteId,omitempty"`
	OperationNatureID string    `json:"naturezaOperacaoId"`
	OriginUF          string    `json:"ufOrigem"`
	DestinationUF     string    `json:"ufDestino"`
	ConfigSource      string    `json:"origemConfiguracao"`
	Items             int       `json:"itens"`
	TotalTaxes        string    `json:"totalImpostos"`
	GrandTotal        string    `json:"totalPedido"`
}

// Publisher sends calculation events.
// Implementations: NATSPublisher, NopPublisher
type Publisher interface {
	PublishCalculation(ctx context.Context, evt CalculationCompleted) error
	Close() error
}

// NopPublisher discards events. Used when no message bus is configured.
type NopPublisher struct{}

// Compile-time check that NopPublisher implements Publisher.
var _ Publisher = NopPublisher{}

func (NopPublisher) PublishCalculation(ctx context.Context, evt CalculationCompleted) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
