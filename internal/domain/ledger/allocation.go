// Package ledger contiene la aritmética de distribución de abonos por producto.
// Todo se calcula en decimal con precisión de centavos.
package ledger

import (
	"github.com/jhoicas/Creditos-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Tolerance diferencia máxima aceptada entre montos (un centavo).
var Tolerance = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// ItemBalance estado de un producto del crédito frente a los abonos ya distribuidos.
type ItemBalance struct {
	ProductID string
	Subtotal  decimal.Decimal
	Allocated decimal.Decimal
}

// Pending saldo pendiente del producto (nunca negativo).
func (b ItemBalance) Pending() decimal.Decimal {
	p := b.Subtotal.Sub(b.Allocated)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// Allocation monto de un abono atribuido a un producto.
type Allocation struct {
	ProductID string
	Amount    decimal.Decimal
}

// IsCents indica si el monto no tiene más de dos decimales.
func IsCents(d decimal.Decimal) bool {
	return d.Round(2).Equal(d)
}

// Sum suma los montos de una distribución.
func Sum(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}

// Proportional reparte amount entre los productos en proporción a su saldo pendiente.
// Cada parte se redondea a centavos y el último producto con saldo absorbe el residuo,
// de modo que la suma es exactamente amount. Las partes en cero se omiten.
func Proportional(amount decimal.Decimal, items []ItemBalance) ([]Allocation, error) {
	pending := make([]decimal.Decimal, 0, len(items))
	open := make([]ItemBalance, 0, len(items))
	totalPending := decimal.Zero
	for _, it := range items {
		p := it.Pending()
		if !p.IsPositive() {
			continue
		}
		open = append(open, it)
		pending = append(pending, p)
		totalPending = totalPending.Add(p)
	}
	if !totalPending.IsPositive() {
		return nil, domain.ErrNothingPending
	}
	if amount.GreaterThan(totalPending.Add(Tolerance)) {
		return nil, domain.ErrOverAllocated
	}

	n := len(open)
	shares := make([]decimal.Decimal, n)
	acc := decimal.Zero
	for i := 0; i < n-1; i++ {
		s := amount.Mul(pending[i]).Div(totalPending).Round(2)
		if s.GreaterThan(pending[i]) {
			s = pending[i]
		}
		shares[i] = s
		acc = acc.Add(s)
	}
	shares[n-1] = amount.Sub(acc)
	rebalance(shares, pending)

	out := make([]Allocation, 0, n)
	for i, it := range open {
		if shares[i].IsZero() {
			continue
		}
		out = append(out, Allocation{ProductID: it.ProductID, Amount: shares[i]})
	}
	return out, nil
}

// rebalance mantiene 0 <= shares[i] <= pending[i] moviendo centavos hacia atrás
// cuando el residuo del último producto queda fuera de rango. La suma no cambia.
func rebalance(shares, pending []decimal.Decimal) {
	last := len(shares) - 1
	switch {
	case shares[last].GreaterThan(pending[last]):
		excess := shares[last].Sub(pending[last])
		shares[last] = pending[last]
		for i := last - 1; i >= 0 && excess.IsPositive(); i-- {
			take := decimal.Min(pending[i].Sub(shares[i]), excess)
			shares[i] = shares[i].Add(take)
			excess = excess.Sub(take)
		}
		// Solo puede sobrar dentro de la tolerancia aceptada por Proportional.
		shares[last] = shares[last].Add(excess)
	case shares[last].IsNegative():
		deficit := shares[last].Neg()
		shares[last] = decimal.Zero
		for i := last - 1; i >= 0 && deficit.IsPositive(); i-- {
			take := decimal.Min(shares[i], deficit)
			shares[i] = shares[i].Sub(take)
			deficit = deficit.Sub(take)
		}
	}
}

// ValidateManual valida una distribución indicada por el usuario contra las líneas del crédito:
// productos conocidos, suma igual a amount (±Tolerance) y sin superar el subtotal de ningún producto.
// Los productos repetidos se acumulan. El resultado sigue el orden de items y omite ceros.
func ValidateManual(amount decimal.Decimal, items []ItemBalance, manual []Allocation) ([]Allocation, error) {
	byProduct := make(map[string]ItemBalance, len(items))
	for _, it := range items {
		byProduct[it.ProductID] = it
	}

	requested := make(map[string]decimal.Decimal, len(manual))
	for _, m := range manual {
		if m.Amount.IsNegative() || !IsCents(m.Amount) {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := byProduct[m.ProductID]; !ok {
			return nil, domain.ErrUnknownProduct
		}
		requested[m.ProductID] = requested[m.ProductID].Add(m.Amount)
	}

	if Sum(manual).Sub(amount).Abs().GreaterThan(Tolerance) {
		return nil, domain.ErrAllocationMismatch
	}

	out := make([]Allocation, 0, len(requested))
	for _, it := range items {
		amt, ok := requested[it.ProductID]
		if !ok || amt.IsZero() {
			continue
		}
		if it.Allocated.Add(amt).GreaterThan(it.Subtotal.Add(Tolerance)) {
			return nil, domain.ErrOverAllocated
		}
		out = append(out, Allocation{ProductID: it.ProductID, Amount: amt})
	}
	return out, nil
}

// PercentPaid porcentaje pagado sobre el total del crédito, redondeado a dos decimales.
func PercentPaid(totalPaid, totalAmount decimal.Decimal) decimal.Decimal {
	if !totalAmount.IsPositive() {
		return decimal.Zero
	}
	return totalPaid.Div(totalAmount).Mul(hundred).Round(2)
}

// NewBalance saldo tras un abono, nunca negativo.
func NewBalance(balance, amount decimal.Decimal) decimal.Decimal {
	return decimal.Max(balance.Sub(amount), decimal.Zero)
}
