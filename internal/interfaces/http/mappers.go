package http

import (
	"github.com/jhoicas/Creditos-api/internal/application/dto"
	"github.com/jhoicas/Creditos-api/internal/application/payment"
	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toCreditResponse(c *entity.Credit) dto.CreditResponse {
	out := dto.CreditResponse{
		ID:               c.ID,
		ClientID:         c.ClientID,
		VendorID:         c.VendorID,
		TotalAmount:      c.TotalAmount,
		Balance:          c.Balance,
		Installment:      c.Installment,
		InstallmentCount: c.InstallmentCount,
		Frequency:        c.Frequency,
		StartDate:        c.StartDate.Format(dateLayout),
		DueDate:          c.DueDate.Format(dateLayout),
		State:            c.State,
		CreatedBy:        c.CreatedBy,
		CreatedAt:        c.CreatedAt,
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, dto.CreditItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	out := dto.PaymentResponse{
		ID:          p.ID,
		CreditID:    p.CreditID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate,
		Method:      p.Method,
		RecordedBy:  p.RecordedBy,
	}
	for _, a := range p.Allocations {
		out.Allocations = append(out.Allocations, dto.AllocationResponse{ProductID: a.ProductID, Amount: a.Amount})
	}
	return out
}

func toSummaryResponse(s *payment.Summary) dto.PaymentSummaryResponse {
	out := dto.PaymentSummaryResponse{
		CreditID:    s.Credit.ID,
		Payments:    make([]dto.PaymentResponse, 0, len(s.Payments)),
		TotalPaid:   s.TotalPaid,
		Remaining:   s.Remaining,
		PercentPaid: s.PercentPaid,
	}
	for _, p := range s.Payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	return out
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		MovementTypeID: m.MovementTypeID,
		Quantity:       m.Quantity,
		Origin:         m.Origin,
		Destination:    m.Destination,
		Reference:      m.Reference,
		Observation:    m.Observation,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovementResponses(ms []*entity.InventoryMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMovementResponse(m))
	}
	return out
}
