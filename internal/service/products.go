package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linemk/shop-admin/internal/domain/models"
	"github.com/linemk/shop-admin/internal/lib/imageopt"
)

type ProductGateway interface {
	GetProducts(ctx context.Context, token string) ([]models.Product, error)
	CreateProduct(ctx context.Context, token string, in models.ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, token string, productID int64, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, token string, productID int64) error
}

type ProductService struct {
	log     *slog.Logger
	gateway ProductGateway
}

func NewProductService(log *slog.Logger, gateway ProductGateway) *ProductService {
	return &ProductService{log: log, gateway: gateway}
}

func (s *ProductService) List(ctx context.Context, token string) ([]models.Product, error) {
	const op = "service.ProductService.List"

	products, err := s.gateway.GetProducts(ctx, token)
	if err != nil {
		s.log.Error("failed to fetch products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// Get находит товар в каталоге по id
func (s *ProductService) Get(ctx context.Context, token string, productID int64) (models.Product, error) {
	const op = "service.ProductService.Get"

	products, err := s.List(ctx, token)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == productID {
			return p, nil
		}
	}
	return models.Product{}, fmt.Errorf("%s: product %d: %w", op, productID, ErrProductNotFound)
}

func (s *ProductService) Create(ctx context.Context, token string, in models.ProductInput) (models.Product, error) {
	const op = "service.ProductService.Create"
	logger := s.log.With(slog.String("op", op), slog.String("name", in.Name))

	in.Files = optimize(in.Files)
	p, err := s.gateway.CreateProduct(ctx, token, in)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product created", slog.Int64("productID", p.ID), slog.Int("files", len(in.Files)))
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, token string, productID int64, in models.ProductInput) (models.Product, error) {
	const op = "service.ProductService.Update"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID))

	in.Files = optimize(in.Files)
	p, err := s.gateway.UpdateProduct(ctx, token, productID, in)
	if err != nil {
		logger.Error("failed to update product", slog.Any("error", err))
		return models.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product updated", slog.Int("files", len(in.Files)))
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, token string, productID int64) error {
	const op = "service.ProductService.Delete"
	logger := s.log.With(slog.String("op", op), slog.Int64("productID", productID))

	if err := s.gateway.DeleteProduct(ctx, token, productID); err != nil {
		logger.Error("failed to delete product", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	logger.Info("product deleted")
	return nil
}

func optimize(files []models.FileUpload) []models.FileUpload {
	if len(files) == 0 {
		return files
	}
	out := make([]models.FileUpload, len(files))
	for i, f := range files {
		out[i] = imageopt.Optimize(f)
	}
	return out
}
