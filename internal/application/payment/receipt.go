package payment

import (
	"context"
	"fmt"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReceiptLine producto y monto abonado en el comprobante.
type ReceiptLine struct {
	ProductID   string
	ProductName string
	Amount      decimal.Decimal
}

// ReceiptData todo lo que el generador necesita para dibujar el comprobante.
type ReceiptData struct {
	Payment      *entity.Payment
	Credit       *entity.Credit
	Client       *entity.Client
	Lines        []ReceiptLine
	PreviousPaid decimal.Decimal // abonado antes de este pago
}

// ReceiptGenerator genera el PDF del comprobante de pago.
type ReceiptGenerator interface {
	GeneratePaymentReceipt(ctx context.Context, data ReceiptData) ([]byte, error)
}

// ReceiptUseCase arma el comprobante de pago (PDF) de un abono.
type ReceiptUseCase struct {
	payments  repository.PaymentRepository
	credits   repository.CreditRepository
	clients   repository.ClientRepository
	products  repository.ProductRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	payments repository.PaymentRepository,
	credits repository.CreditRepository,
	clients repository.ClientRepository,
	products repository.ProductRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		payments:  payments,
		credits:   credits,
		clients:   clients,
		products:  products,
		generator: generator,
	}
}

// Receipt devuelve el PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, paymentID string) ([]byte, string, error) {
	p, err := uc.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener abono: %w", err)
	}
	if p == nil {
		return nil, "", domain.ErrNotFound
	}
	credit, err := uc.credits.GetByID(ctx, p.CreditID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener crédito: %w", err)
	}
	if credit == nil {
		return nil, "", domain.ErrNotFound
	}
	client, err := uc.clients.GetByID(ctx, credit.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: credit.ClientID}
	}

	allocs, err := uc.payments.ListAllocationsByPayment(ctx, p.ID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: distribución: %w", err)
	}
	data := ReceiptData{Payment: p, Credit: credit, Client: client, PreviousPaid: decimal.Zero}
	for _, a := range allocs {
		name := a.ProductID
		if prod, err := uc.products.GetByID(ctx, a.ProductID); err == nil && prod != nil {
			name = prod.Name
		}
		data.Lines = append(data.Lines, ReceiptLine{ProductID: a.ProductID, ProductName: name, Amount: a.Amount})
	}

	history, err := uc.payments.ListByCredit(ctx, credit.ID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: historial: %w", err)
	}
	for _, h := range history {
		if h.ID == p.ID {
			break
		}
		data.PreviousPaid = data.PreviousPaid.Add(h.Amount)
	}

	pdf, err := uc.generator.GeneratePaymentReceipt(ctx, data)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("comprobante-%s.pdf", p.ID), nil
}
