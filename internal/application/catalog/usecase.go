package catalog

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stockku/inventory-core/internal/domain"
	"github.com/stockku/inventory-core/internal/domain/entity"
	"github.com/stockku/inventory-core/internal/domain/repository"
	"github.com/stockku/inventory-core/pkg/logger"
)

// ImageUploader puerto hacia el endpoint de subida de activos binarios.
// Devuelve la URL pública del activo; el catálogo solo almacena esa cadena.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// ProductUseCase operaciones de catálogo reservadas al rol admin: alta,
// edición y borrado de productos. El ajuste de stock NO pasa por aquí
// (ver inventory.StockUseCase), de modo que una sesión staff no tiene
// ninguna operación expuesta para alterar nombre, SKU o borrar.
type ProductUseCase struct {
	products repository.ProductRepository
	uploader ImageUploader
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso de catálogo.
func NewProductUseCase(products repository.ProductRepository, uploader ImageUploader, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{products: products, uploader: uploader, log: log}
}

// ProductImage imagen opcional a subir junto con el producto.
type ProductImage struct {
	Data     io.Reader
	Filename string
}

// AddProduct crea un producto con stock inicial 0. Si hay imagen se sube
// primero y se guarda su URL; un fallo de subida no bloquea el alta, el
// producto queda sin imagen.
func (uc *ProductUseCase) AddProduct(ctx context.Context, actor entity.Session, name, sku string, image *ProductImage) (*entity.Product, error) {
	if !actor.IsAuthenticated() || !actor.Role.CanManageProducts() {
		return nil, domain.ErrPermissionDenied
	}
	if name == "" || sku == "" {
		return nil, domain.ErrInvalidInput
	}

	imageURL := uc.uploadOrEmpty(ctx, image)
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		SKU:       sku,
		Stock:     0,
		ImageURL:  imageURL,
		CreatedAt: time.Now(),
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct actualiza nombre, SKU y opcionalmente la imagen. Si la subida
// de la imagen nueva falla se conserva la URL anterior.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, actor entity.Session, id, name, sku string, image *ProductImage) error {
	if !actor.IsAuthenticated() || !actor.Role.CanManageProducts() {
		return domain.ErrPermissionDenied
	}
	if name == "" || sku == "" {
		return domain.ErrInvalidInput
	}

	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	product.Name = name
	product.SKU = sku
	if url := uc.uploadOrEmpty(ctx, image); url != "" {
		product.ImageURL = url
	}
	return uc.products.Update(ctx, product)
}

// DeleteProduct borra el producto. Las entradas de historial que lo
// referencian se conservan: la referencia es blanda y no hay cascada.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, actor entity.Session, id string) error {
	if !actor.IsAuthenticated() || !actor.Role.CanManageProducts() {
		return domain.ErrPermissionDenied
	}
	return uc.products.Delete(ctx, id)
}

func (uc *ProductUseCase) uploadOrEmpty(ctx context.Context, image *ProductImage) string {
	if image == nil || image.Data == nil {
		return ""
	}
	url, err := uc.uploader.Upload(ctx, image.Data, image.Filename)
	if err != nil {
		uc.log.Warn().Err(err).Str("filename", image.Filename).Msg("subir imagen de producto")
		return ""
	}
	return url
}
