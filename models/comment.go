package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"gorm.io/gorm"
)

type Comment struct {
	ID            int       `gorm:"primary_key" json:"id"`
	BusinessId    string    `gorm:"index;not null" json:"business_id"`
	Description   string    `gorm:"type:text;not null" json:"description" binding:"required"`
	ReferenceID   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:255" json:"reference_type"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewComment struct {
	Description   string `json:"description" binding:"required"`
	ReferenceID   int    `json:"reference_id"`
	ReferenceType string `json:"reference_type"`
}

// PostMessage appends a note to a record's activity stream inside the caller's
// transaction. Used to cross-link generated service orders and their sales.
func PostMessage(tx *gorm.DB, referenceType string, referenceId int, body string) error {
	ctx := tx.Statement.Context

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return errors.New("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, _ := utils.GetUserNameFromContext(ctx)

	comment := Comment{
		BusinessId:    businessId,
		Description:   body,
		ReferenceID:   referenceId,
		ReferenceType: referenceType,
		UserId:        userId,
		UserName:      userName,
	}
	return tx.Create(&comment).Error
}

func CreateComment(ctx context.Context, input *NewComment) (*Comment, error) {

	db := config.GetDB()
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	userName, ok := utils.GetUserNameFromContext(ctx)
	if !ok || userName == "" {
		return nil, errors.New("user name is required")
	}

	comment := Comment{
		BusinessId:    businessId,
		Description:   input.Description,
		ReferenceID:   input.ReferenceID,
		ReferenceType: input.ReferenceType,
		UserId:        userId,
		UserName:      userName,
	}
	if err := db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func GetComment(ctx context.Context, id int) (*Comment, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[Comment](ctx, businessId, id)
}

func GetComments(ctx context.Context, referenceId *int, referenceType *string, userId *int) ([]*Comment, error) {

	db := config.GetDB()
	var results []*Comment

	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if referenceId != nil && *referenceId > 0 {
		dbCtx = dbCtx.Where("reference_id = ?", referenceId)
	}
	if referenceType != nil && len(*referenceType) > 0 {
		dbCtx = dbCtx.Where("reference_type = ?", referenceType)
	}
	if userId != nil && *userId > 0 {
		dbCtx = dbCtx.Where("user_id = ?", userId)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
