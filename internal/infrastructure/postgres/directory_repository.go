package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
	"github.com/jhoicas/Creditos-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.VendorRepository  = (*VendorRepo)(nil)
)

// ClientRepo lectura de clientes.
type ClientRepo struct{ q Querier }

func NewClientRepository(q Querier) *ClientRepo { return &ClientRepo{q: q} }

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	var c entity.Client
	var routeID *string
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, documento, ruta_id, activo FROM clientes WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Document, &routeID, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	c.RouteID = deref(routeID)
	return &c, nil
}

// ProductRepo lectura de productos.
type ProductRepo struct{ q Querier }

func NewProductRepository(q Querier) *ProductRepo { return &ProductRepo{q: q} }

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, precio, activo FROM productos WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return &p, nil
}

// VendorRepo lectura de vendedores.
type VendorRepo struct{ q Querier }

func NewVendorRepository(q Querier) *VendorRepo { return &VendorRepo{q: q} }

func (r *VendorRepo) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	var v entity.Vendor
	var userID *string
	err := r.q.QueryRow(ctx,
		`SELECT id, usuario_id, nombre, activo FROM vendedores WHERE id = $1`, id,
	).Scan(&v.ID, &userID, &v.Name, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vendedor: %w", err)
	}
	v.UserID = deref(userID)
	return &v, nil
}
