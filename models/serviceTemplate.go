package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"github.com/shopspring/decimal"
)

// ServiceTemplate is the reusable blueprint a tracked product points at:
// the work instructions, the planned duration and the category set that a
// generated service order starts from.
type ServiceTemplate struct {
	ID           int             `gorm:"primary_key" json:"id"`
	BusinessId   string          `gorm:"index;not null" json:"business_id"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Instructions string          `gorm:"type:text" json:"instructions"`
	// planned hours of work
	Duration   decimal.Decimal    `gorm:"type:decimal(20,8);not null" json:"duration"`
	Categories []*ServiceCategory `gorm:"many2many:service_template_categories" json:"categories"`
	IsActive   *bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewServiceTemplate struct {
	Name         string          `json:"name" binding:"required"`
	Instructions string          `json:"instructions"`
	Duration     decimal.Decimal `json:"duration"`
	CategoryIds  []int           `json:"category_ids"`
}

func (t ServiceTemplate) GetBusinessId() string {
	return t.BusinessId
}

func (input *NewServiceTemplate) validate(ctx context.Context, businessId string) error {
	if input.Duration.IsNegative() {
		return errors.New("duration cannot be negative")
	}
	for _, categoryId := range input.CategoryIds {
		if err := utils.ValidateResourceId[ServiceCategory](ctx, businessId, categoryId); err != nil {
			return errors.New("service category not found")
		}
	}
	return nil
}

func CreateServiceTemplate(ctx context.Context, input *NewServiceTemplate) (*ServiceTemplate, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, businessId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	template := ServiceTemplate{
		BusinessId:   businessId,
		Name:         input.Name,
		Instructions: input.Instructions,
		Duration:     input.Duration,
	}
	for _, categoryId := range input.CategoryIds {
		template.Categories = append(template.Categories, &ServiceCategory{ID: categoryId})
	}
	if err := db.WithContext(ctx).Create(&template).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisResource[ServiceTemplate](businessId, template.ID); err != nil {
		return nil, err
	}
	return GetServiceTemplate(ctx, template.ID)
}

func GetServiceTemplate(ctx context.Context, id int) (*ServiceTemplate, error) {
	return GetResource[ServiceTemplate](ctx, id, "Categories")
}

func GetServiceTemplates(ctx context.Context) ([]*ServiceTemplate, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[ServiceTemplate](ctx, businessId, "Categories")
}
