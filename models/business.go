package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
)

type Business struct {
	ID              uuid.UUID `gorm:"primary_key" json:"id"`
	Name            string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	ContactName     string    `gorm:"size:100" json:"contact_name"`
	Email           string    `gorm:"size:255" json:"email"`
	Phone           string    `gorm:"size:20" json:"phone"`
	Address         string    `gorm:"type:text" json:"address"`
	Country         string    `gorm:"size:100" json:"country"`
	City            string    `gorm:"size:100" json:"city"`
	Timezone        string    `gorm:"size:50" json:"timezone"`
	PrimaryBranchId int       `gorm:"not null" json:"primary_branch_id"`
	IsActive        *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBusiness struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Timezone    string `json:"timezone"`
}

// CreateBusiness provisions a tenant: the business record plus its primary branch.
func CreateBusiness(ctx context.Context, input *NewBusiness) (*Business, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	db := config.GetDB()

	business := Business{
		ID:          uuid.New(),
		Name:        input.Name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		Country:     input.Country,
		City:        input.City,
		Timezone:    input.Timezone,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&business).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	branch := Branch{
		BusinessId: business.ID.String(),
		Name:       "Head Office",
	}
	if err := tx.WithContext(ctx).Create(&branch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.WithContext(ctx).Model(&business).Update("PrimaryBranchId", branch.ID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	business.PrimaryBranchId = branch.ID

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func GetBusiness(ctx context.Context) (*Business, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var result Business
	if err := db.WithContext(ctx).Where("id = ?", businessId).First(&result).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}
