package store

import (
	"context"

	logModels "stocktrail/internal/locationlog/models"
	productModels "stocktrail/internal/product/models"
	"stocktrail/internal/transfer/models"
	id "stocktrail/pkg/domain"
)

// ProductWriter is the slice of the product repository a transfer mutates.
type ProductWriter interface {
	FindByIDForUpdate(ctx context.Context, productID id.ProductID) (*productModels.Product, error)
	UpdateQuantityAndBranch(ctx context.Context, productID id.ProductID, u productModels.Update) error
}

type SlipWriter interface {
	Create(ctx context.Context, slip *models.Slip) error
	FindByIDForUpdate(ctx context.Context, slipID id.SlipID) (*models.Slip, error)
	Update(ctx context.Context, slip *models.Slip) error
}

type LogAppender interface {
	Append(ctx context.Context, e *logModels.Entry) error
}

// TxStores are the stores visible inside one workflow transaction. Writes made
// through them become visible together on commit or not at all.
type TxStores struct {
	Products ProductWriter
	Slips    SlipWriter
	Log      LogAppender
}
