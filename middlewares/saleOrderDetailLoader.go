package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"gorm.io/gorm"
)

type saleOrderDetailReader struct {
	db *gorm.DB
}

func (r *saleOrderDetailReader) getSaleOrderDetails(ctx context.Context, saleOrderIds []int) []*dataloader.Result[[]*models.SaleOrderDetail] {
	var results []models.SaleOrderDetail
	err := r.db.WithContext(ctx).Where("sale_order_id IN ?", saleOrderIds).Order("id").Find(&results).Error
	if err != nil {
		return handleError[[]*models.SaleOrderDetail](len(saleOrderIds), err)
	}

	resultMap := make(map[int][]*models.SaleOrderDetail)
	for i := range results {
		detail := &results[i]
		resultMap[detail.SaleOrderId] = append(resultMap[detail.SaleOrderId], detail)
	}
	loaderResults := make([]*dataloader.Result[[]*models.SaleOrderDetail], 0, len(saleOrderIds))
	for _, id := range saleOrderIds {
		loaderResults = append(loaderResults, &dataloader.Result[[]*models.SaleOrderDetail]{Data: resultMap[id]})
	}
	return loaderResults
}

func GetSaleOrderDetails(ctx context.Context, saleOrderId int) ([]*models.SaleOrderDetail, error) {
	loaders := For(ctx)
	return loaders.saleOrderDetailLoader.Load(ctx, saleOrderId)()
}
