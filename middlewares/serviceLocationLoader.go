package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"gorm.io/gorm"
)

type serviceLocationReader struct {
	db *gorm.DB
}

func (r *serviceLocationReader) getServiceLocations(ctx context.Context, ids []int) []*dataloader.Result[*models.ServiceLocation] {
	var results []models.ServiceLocation
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.ServiceLocation](len(ids), err)
	}

	resultMap := make(map[int]*models.ServiceLocation)
	for i := range results {
		resultMap[results[i].ID] = &results[i]
	}
	loaderResults := make([]*dataloader.Result[*models.ServiceLocation], 0, len(ids))
	for _, id := range ids {
		loaderResults = append(loaderResults, &dataloader.Result[*models.ServiceLocation]{Data: resultMap[id]})
	}
	return loaderResults
}

func GetServiceLocation(ctx context.Context, id int) (*models.ServiceLocation, error) {
	loaders := For(ctx)
	return loaders.serviceLocationLoader.Load(ctx, id)()
}
