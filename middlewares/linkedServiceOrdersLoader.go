package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"gorm.io/gorm"
)

type linkedServiceOrdersReader struct {
	db *gorm.DB
}

// batches the sale -> service order linkage lookup across a response
func (r *linkedServiceOrdersReader) getLinkedServiceOrders(ctx context.Context, saleOrderIds []int) []*dataloader.Result[[]*models.ServiceOrder] {
	byId, err := models.GetLinkedServiceOrders(ctx, saleOrderIds)
	if err != nil {
		return handleError[[]*models.ServiceOrder](len(saleOrderIds), err)
	}

	loaderResults := make([]*dataloader.Result[[]*models.ServiceOrder], 0, len(saleOrderIds))
	for _, id := range saleOrderIds {
		loaderResults = append(loaderResults, &dataloader.Result[[]*models.ServiceOrder]{Data: byId[id]})
	}
	return loaderResults
}

func GetLinkedServiceOrders(ctx context.Context, saleOrderId int) ([]*models.ServiceOrder, error) {
	loaders := For(ctx)
	return loaders.linkedServiceOrdersLoader.Load(ctx, saleOrderId)()
}
