package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/jhoicas/Creditos-api/internal/domain/ledger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProportional_UnSoloProductoRecibeTodo(t *testing.T) {
	items := []ledger.ItemBalance{{ProductID: "A", Subtotal: d("100"), Allocated: d("0")}}

	allocs, err := ledger.Proportional(d("40"), items)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "A", allocs[0].ProductID)
	assert.True(t, allocs[0].Amount.Equal(d("40")))
}

func TestProportional_ReparteSegunPendiente(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("30"), Allocated: d("0")},
		{ProductID: "B", Subtotal: d("70"), Allocated: d("0")},
	}

	allocs, err := ledger.Proportional(d("50"), items)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Amount.Equal(d("15")), "A recibe 30%%: %s", allocs[0].Amount)
	assert.True(t, allocs[1].Amount.Equal(d("35")), "B recibe 70%%: %s", allocs[1].Amount)
}

// Tres productos iguales y un abono de 100: 33.33 + 33.33 + 33.34.
func TestProportional_UltimoAbsorbeResiduo(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("10"), Allocated: d("0")},
		{ProductID: "B", Subtotal: d("10"), Allocated: d("0")},
		{ProductID: "C", Subtotal: d("10"), Allocated: d("0")},
	}

	allocs, err := ledger.Proportional(d("10"), items)
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	assert.True(t, allocs[0].Amount.Equal(d("3.33")))
	assert.True(t, allocs[1].Amount.Equal(d("3.33")))
	assert.True(t, allocs[2].Amount.Equal(d("3.34")))
	assert.True(t, ledger.Sum(allocs).Equal(d("10")), "la suma debe ser exacta")
}

func TestProportional_IgnoraProductosSaldados(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("30"), Allocated: d("30")},
		{ProductID: "B", Subtotal: d("70"), Allocated: d("20")},
	}

	allocs, err := ledger.Proportional(d("25"), items)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "B", allocs[0].ProductID)
	assert.True(t, allocs[0].Amount.Equal(d("25")))
}

func TestProportional_SinPendiente(t *testing.T) {
	items := []ledger.ItemBalance{{ProductID: "A", Subtotal: d("30"), Allocated: d("30")}}

	_, err := ledger.Proportional(d("1"), items)
	assert.ErrorIs(t, err, domain.ErrNothingPending)
}

func TestProportional_SuperaPendienteTotal(t *testing.T) {
	items := []ledger.ItemBalance{{ProductID: "A", Subtotal: d("30"), Allocated: d("10")}}

	_, err := ledger.Proportional(d("25"), items)
	assert.ErrorIs(t, err, domain.ErrOverAllocated)
}

// Pago total con pendientes no divisibles: cada producto queda exactamente saldado.
func TestProportional_PagoTotalNoSuperaSubtotales(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("0.01"), Allocated: d("0")},
		{ProductID: "B", Subtotal: d("0.01"), Allocated: d("0")},
		{ProductID: "C", Subtotal: d("0.01"), Allocated: d("0")},
		{ProductID: "D", Subtotal: d("99.97"), Allocated: d("0")},
	}

	allocs, err := ledger.Proportional(d("100"), items)
	require.NoError(t, err)
	assert.True(t, ledger.Sum(allocs).Equal(d("100")))
	for i, a := range allocs {
		assert.False(t, a.Amount.GreaterThan(items[i].Subtotal), "producto %s sobre-asignado: %s", a.ProductID, a.Amount)
		assert.False(t, a.Amount.IsNegative())
	}
}

func TestProportional_SumaSiempreExacta(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("17.35"), Allocated: d("2.10")},
		{ProductID: "B", Subtotal: d("41.99"), Allocated: d("0")},
		{ProductID: "C", Subtotal: d("5.55"), Allocated: d("1.01")},
		{ProductID: "D", Subtotal: d("0.07"), Allocated: d("0")},
	}
	for _, amt := range []string{"0.01", "0.03", "1", "7.77", "33.33", "61.85"} {
		allocs, err := ledger.Proportional(d(amt), items)
		require.NoError(t, err, amt)
		assert.True(t, ledger.Sum(allocs).Equal(d(amt)), "monto %s, suma %s", amt, ledger.Sum(allocs))
		for _, a := range allocs {
			assert.True(t, a.Amount.IsPositive(), "no debe haber partes en cero")
			assert.True(t, ledger.IsCents(a.Amount))
		}
	}
}

func TestValidateManual_Aceptada(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("30"), Allocated: d("0")},
		{ProductID: "B", Subtotal: d("70"), Allocated: d("0")},
	}
	manual := []ledger.Allocation{{ProductID: "B", Amount: d("30")}, {ProductID: "A", Amount: d("20")}}

	allocs, err := ledger.ValidateManual(d("50"), items, manual)
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "A", allocs[0].ProductID, "el resultado sigue el orden de las líneas")
	assert.True(t, allocs[0].Amount.Equal(d("20")))
	assert.True(t, allocs[1].Amount.Equal(d("30")))
}

func TestValidateManual_Errores(t *testing.T) {
	items := []ledger.ItemBalance{
		{ProductID: "A", Subtotal: d("30"), Allocated: d("25")},
		{ProductID: "B", Subtotal: d("70"), Allocated: d("0")},
	}
	cases := []struct {
		name   string
		amount string
		manual []ledger.Allocation
		want   error
	}{
		{"producto ajeno", "10", []ledger.Allocation{{ProductID: "Z", Amount: d("10")}}, domain.ErrUnknownProduct},
		{"suma distinta", "10", []ledger.Allocation{{ProductID: "B", Amount: d("9.98")}}, domain.ErrAllocationMismatch},
		{"supera subtotal", "10", []ledger.Allocation{{ProductID: "A", Amount: d("10")}}, domain.ErrOverAllocated},
		{"monto negativo", "10", []ledger.Allocation{{ProductID: "B", Amount: d("-1")}, {ProductID: "B", Amount: d("11")}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.ValidateManual(d(tc.amount), items, tc.manual)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidateManual_ToleranciaDeUnCentavo(t *testing.T) {
	items := []ledger.ItemBalance{{ProductID: "A", Subtotal: d("30"), Allocated: d("0")}}

	_, err := ledger.ValidateManual(d("10"), items, []ledger.Allocation{{ProductID: "A", Amount: d("9.99")}})
	assert.NoError(t, err)
}

func TestPercentPaid(t *testing.T) {
	assert.True(t, ledger.PercentPaid(d("40"), d("100")).Equal(d("40")))
	assert.True(t, ledger.PercentPaid(d("1"), d("3")).Equal(d("33.33")))
	assert.True(t, ledger.PercentPaid(d("0"), d("0")).IsZero())
}

func TestNewBalance_NuncaNegativo(t *testing.T) {
	assert.True(t, ledger.NewBalance(d("10"), d("15")).IsZero())
	assert.True(t, ledger.NewBalance(d("100"), d("40")).Equal(d("60")))
}
