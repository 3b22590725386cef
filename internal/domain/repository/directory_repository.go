package repository

import (
	"context"

	"github.com/jhoicas/Creditos-api/internal/domain/entity"
)

// Directorios externos: este servicio solo los consulta.

type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

type VendorRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
}
