package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int             `gorm:"primary_key" json:"id"`
	BusinessId string          `gorm:"index;not null" json:"business_id"`
	Name       string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Sku        string          `gorm:"size:100" json:"sku"`
	SalesPrice decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"sales_price"`
	// FieldServiceTracking decides whether confirming a sale of this product
	// generates a service order, and at which granularity.
	FieldServiceTracking FieldServiceTracking `gorm:"size:10;not null;default:'no'" json:"field_service_tracking"`
	// ServiceTemplateId supplies instructions, duration and categories for
	// generated orders. Required whenever tracking is not "no".
	ServiceTemplateId int       `gorm:"index;default:0" json:"service_template_id"`
	Description       string    `gorm:"type:text" json:"description"`
	IsActive          *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name                 string               `json:"name" binding:"required"`
	Sku                  string               `json:"sku"`
	SalesPrice           decimal.Decimal      `json:"sales_price"`
	FieldServiceTracking FieldServiceTracking `json:"field_service_tracking"`
	ServiceTemplateId    int                  `json:"service_template_id"`
	Description          string               `json:"description"`
}

func (p Product) GetBusinessId() string {
	return p.BusinessId
}

func (input *NewProduct) validate(ctx context.Context, businessId string) error {
	if input.FieldServiceTracking == "" {
		input.FieldServiceTracking = FieldServiceTrackingNo
	}
	if !input.FieldServiceTracking.Valid() {
		return errors.New("invalid field service tracking")
	}
	if input.FieldServiceTracking != FieldServiceTrackingNo {
		if input.ServiceTemplateId <= 0 {
			return errors.New("service template is required for tracked products")
		}
		if err := utils.ValidateResourceId[ServiceTemplate](ctx, businessId, input.ServiceTemplateId); err != nil {
			return errors.New("service template not found")
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
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
	product := Product{
		BusinessId:           businessId,
		Name:                 input.Name,
		Sku:                  input.Sku,
		SalesPrice:           input.SalesPrice,
		FieldServiceTracking: input.FieldServiceTracking,
		ServiceTemplateId:    input.ServiceTemplateId,
		Description:          input.Description,
	}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisResource[Product](businessId, product.ID); err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return GetResource[Product](ctx, id)
}

func GetProducts(ctx context.Context) ([]*Product, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Product](ctx, businessId)
}
