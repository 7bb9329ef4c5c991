package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
)

// ServiceCategory classifies field work (installation, maintenance, repair, ...).
// Categories flow from product templates onto generated service orders.
type ServiceCategory struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewServiceCategory struct {
	Name string `json:"name" binding:"required"`
}

func (c ServiceCategory) GetBusinessId() string {
	return c.BusinessId
}

func CreateServiceCategory(ctx context.Context, input *NewServiceCategory) (*ServiceCategory, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	db := config.GetDB()
	category := ServiceCategory{
		BusinessId: businessId,
		Name:       input.Name,
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisResource[ServiceCategory](businessId, category.ID); err != nil {
		return nil, err
	}
	return &category, nil
}

func GetServiceCategory(ctx context.Context, id int) (*ServiceCategory, error) {
	return GetResource[ServiceCategory](ctx, id)
}

func GetServiceCategories(ctx context.Context) ([]*ServiceCategory, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[ServiceCategory](ctx, businessId)
}
