package entity

import "github.com/shopspring/decimal"

// Client cliente (directorio externo, solo lectura en este servicio).
type Client struct {
	ID       string
	Name     string
	Document string
	RouteID  string
	Active   bool
}

// Product producto del catálogo (directorio externo, solo lectura).
type Product struct {
	ID     string
	Name   string
	Price  decimal.Decimal
	Active bool
}

// Vendor vendedor de campo (directorio externo, solo lectura).
type Vendor struct {
	ID     string
	UserID string
	Name   string
	Active bool
}
