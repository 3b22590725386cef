package payment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Creditos-api/internal/application/payment"
	"github.com/jhoicas/Creditos-api/internal/domain"
)

type captureGenerator struct {
	got payment.ReceiptData
}

func (g *captureGenerator) GeneratePaymentReceipt(_ context.Context, data payment.ReceiptData) ([]byte, error) {
	g.got = data
	return []byte("%PDF-fake"), nil
}

func TestReceipt_ArmaLineasYAcumulado(t *testing.T) {
	ctx := context.Background()
	s, uc := newAllocator()

	_, err := uc.Register(ctx, adminScope, pay("40"))
	require.NoError(t, err)
	second, err := uc.Register(ctx, adminScope, pay("25"))
	require.NoError(t, err)

	gen := &captureGenerator{}
	receipts := payment.NewReceiptUseCase(s.Payments(), s.Credits(), s.Clients(), s.Products(), gen)

	pdf, name, err := receipts.Receipt(ctx, second.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)
	assert.Equal(t, "comprobante-"+second.Payment.ID+".pdf", name)

	assert.Equal(t, "Ana", gen.got.Client.Name)
	assert.True(t, gen.got.PreviousPaid.Equal(d("40")))
	require.Len(t, gen.got.Lines, 2)
	assert.Equal(t, "Olla", gen.got.Lines[0].ProductName)
	assert.Equal(t, "10.00", gen.got.Lines[0].Amount.StringFixed(2))
	assert.Equal(t, "15.00", gen.got.Lines[1].Amount.StringFixed(2))
}

func TestReceipt_AbonoInexistente(t *testing.T) {
	s, _ := newAllocator()
	receipts := payment.NewReceiptUseCase(s.Payments(), s.Credits(), s.Clients(), s.Products(), &captureGenerator{})

	_, _, err := receipts.Receipt(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
