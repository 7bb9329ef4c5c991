package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"gorm.io/gorm"
)

type serviceTemplateReader struct {
	db *gorm.DB
}

func (r *serviceTemplateReader) getServiceTemplates(ctx context.Context, ids []int) []*dataloader.Result[*models.ServiceTemplate] {
	var results []models.ServiceTemplate
	err := r.db.WithContext(ctx).Preload("Categories").Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.ServiceTemplate](len(ids), err)
	}

	resultMap := make(map[int]*models.ServiceTemplate)
	for i := range results {
		resultMap[results[i].ID] = &results[i]
	}
	loaderResults := make([]*dataloader.Result[*models.ServiceTemplate], 0, len(ids))
	for _, id := range ids {
		loaderResults = append(loaderResults, &dataloader.Result[*models.ServiceTemplate]{Data: resultMap[id]})
	}
	return loaderResults
}

func GetServiceTemplate(ctx context.Context, id int) (*models.ServiceTemplate, error) {
	loaders := For(ctx)
	return loaders.serviceTemplateLoader.Load(ctx, id)()
}
