package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"gorm.io/gorm"
)

// ServiceLocation is a place where field work happens, owned by a customer.
type ServiceLocation struct {
	ID         int    `gorm:"primary_key" json:"id"`
	BusinessId string `gorm:"index;not null" json:"business_id"`
	CustomerId int    `gorm:"index;not null" json:"customer_id" binding:"required"`
	Name       string `gorm:"size:100;not null" json:"name" binding:"required"`
	Address    string `gorm:"type:text" json:"address"`
	// free-form access notes carried onto every order at this location
	Direction string    `gorm:"type:text" json:"direction"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewServiceLocation struct {
	CustomerId int    `json:"customer_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	Direction  string `json:"direction"`
}

func (l ServiceLocation) GetBusinessId() string {
	return l.BusinessId
}

func CreateServiceLocation(ctx context.Context, input *NewServiceLocation) (*ServiceLocation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := utils.ValidateResourceId[Customer](ctx, businessId, input.CustomerId); err != nil {
		return nil, errors.New("customer not found")
	}

	db := config.GetDB()
	location := ServiceLocation{
		BusinessId: businessId,
		CustomerId: input.CustomerId,
		Name:       input.Name,
		Address:    input.Address,
		Direction:  input.Direction,
	}
	if err := db.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, err
	}
	if err := utils.RemoveRedisResource[ServiceLocation](businessId, location.ID); err != nil {
		return nil, err
	}
	return &location, nil
}

func GetServiceLocation(ctx context.Context, id int) (*ServiceLocation, error) {
	return GetResource[ServiceLocation](ctx, id)
}

func GetServiceLocations(ctx context.Context) ([]*ServiceLocation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[ServiceLocation](ctx, businessId)
}

// InferServiceLocation picks a default location for a sale. Candidate owners
// are the customer, the shipping customer and the customer's commercial
// entity; when the customer is itself marked as a service site, only its own
// locations qualify. Returns nil when no candidate owns a location.
func InferServiceLocation(ctx context.Context, customerId int, shippingCustomerId int) (*ServiceLocation, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if customerId <= 0 {
		return nil, nil
	}

	customer, err := GetResource[Customer](ctx, customerId)
	if err != nil {
		return nil, err
	}

	ownerIds := []int{customerId}
	if customer.IsServiceSite == nil || !*customer.IsServiceSite {
		if shippingCustomerId > 0 && shippingCustomerId != customerId {
			ownerIds = append(ownerIds, shippingCustomerId)
		}
		commercial, err := customer.CommercialEntity(ctx)
		if err != nil {
			return nil, err
		}
		if commercial.ID != customerId {
			ownerIds = append(ownerIds, commercial.ID)
		}
	}

	db := config.GetDB()
	var location ServiceLocation
	err = db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Where("customer_id IN ?", ownerIds).
		Where("is_active = ?", true).
		Order("id").
		First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}
