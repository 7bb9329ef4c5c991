package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
)

type Customer struct {
	ID         int    `gorm:"primary_key" json:"id"`
	BusinessId string `gorm:"index;not null" json:"business_id"`
	Name       string `gorm:"size:100;not null" json:"name" binding:"required"`
	Email      string `gorm:"size:100" json:"email"`
	Phone      string `gorm:"size:20" json:"phone"`
	Mobile     string `gorm:"size:20" json:"mobile"`
	Address    string `gorm:"type:text" json:"address"`
	// ParentCustomerId links a contact to the company it belongs to
	// (0 = the customer is itself the top-level commercial entity).
	ParentCustomerId int `gorm:"index;default:0" json:"parent_customer_id"`
	// IsServiceSite marks a partner whose own premises are the service
	// destination; location inference then ignores shipping/parent candidates.
	IsServiceSite *bool     `gorm:"not null;default:false" json:"is_service_site"`
	Notes         string    `gorm:"type:text" json:"notes"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCustomer struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Mobile           string `json:"mobile"`
	Address          string `json:"address"`
	ParentCustomerId int    `json:"parent_customer_id"`
	IsServiceSite    *bool  `json:"is_service_site"`
	Notes            string `json:"notes"`
}

func (c Customer) GetBusinessId() string {
	return c.BusinessId
}

func (input *NewCustomer) validate(ctx context.Context, businessId string) error {
	if input.ParentCustomerId > 0 {
		if err := utils.ValidateResourceId[Customer](ctx, businessId, input.ParentCustomerId); err != nil {
			return errors.New("parent customer not found")
		}
	}
	return nil
}

func CreateCustomer(ctx context.Context, input *NewCustomer) (*Customer, error) {
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
	customer := Customer{
		BusinessId:       businessId,
		Name:             input.Name,
		Email:            input.Email,
		Phone:            input.Phone,
		Mobile:           input.Mobile,
		Address:          input.Address,
		ParentCustomerId: input.ParentCustomerId,
		IsServiceSite:    input.IsServiceSite,
		Notes:            input.Notes,
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return GetResource[Customer](ctx, id)
}

func GetCustomers(ctx context.Context) ([]*Customer, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchAllModels[Customer](ctx, businessId)
}

// CommercialEntity walks ParentCustomerId up to the top-level company record.
// A customer without a parent is its own commercial entity.
func (c *Customer) CommercialEntity(ctx context.Context) (*Customer, error) {
	current := c
	// bounded walk: contact chains are shallow, and a cycle must not hang us
	for depth := 0; depth < 8; depth++ {
		if current.ParentCustomerId <= 0 || current.ParentCustomerId == current.ID {
			return current, nil
		}
		parent, err := GetResource[Customer](ctx, current.ParentCustomerId)
		if err != nil {
			return nil, err
		}
		current = parent
	}
	return current, nil
}
