package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	customerLoader        *dataloader.Loader[int, *models.Customer]
	productLoader         *dataloader.Loader[int, *models.Product]
	serviceLocationLoader *dataloader.Loader[int, *models.ServiceLocation]
	serviceTemplateLoader *dataloader.Loader[int, *models.ServiceTemplate]
	saleOrderDetailLoader *dataloader.Loader[int, []*models.SaleOrderDetail]

	// keyed by sale order id, batches the linkage query across a response
	linkedServiceOrdersLoader *dataloader.Loader[int, []*models.ServiceOrder]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	customerReader := &customerReader{db: conn}
	productReader := &productReader{db: conn}
	serviceLocationReader := &serviceLocationReader{db: conn}
	serviceTemplateReader := &serviceTemplateReader{db: conn}
	saleOrderDetailReader := &saleOrderDetailReader{db: conn}
	linkedServiceOrdersReader := &linkedServiceOrdersReader{db: conn}

	return &Loaders{
		customerLoader:        dataloader.NewBatchedLoader(customerReader.getCustomers, dataloader.WithWait[int, *models.Customer](time.Millisecond)),
		productLoader:         dataloader.NewBatchedLoader(productReader.getProducts, dataloader.WithWait[int, *models.Product](time.Millisecond)),
		serviceLocationLoader: dataloader.NewBatchedLoader(serviceLocationReader.getServiceLocations, dataloader.WithWait[int, *models.ServiceLocation](time.Millisecond)),
		serviceTemplateLoader: dataloader.NewBatchedLoader(serviceTemplateReader.getServiceTemplates, dataloader.WithWait[int, *models.ServiceTemplate](time.Millisecond)),
		saleOrderDetailLoader: dataloader.NewBatchedLoader(saleOrderDetailReader.getSaleOrderDetails, dataloader.WithWait[int, []*models.SaleOrderDetail](time.Millisecond)),

		linkedServiceOrdersLoader: dataloader.NewBatchedLoader(linkedServiceOrdersReader.getLinkedServiceOrders, dataloader.WithWait[int, []*models.ServiceOrder](time.Millisecond)),
	}
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}
