package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
)

type User struct {
	ID         int       `gorm:"primary_key" json:"id"`
	BusinessId string    `gorm:"index;not null" json:"business_id"`
	BranchId   int       `gorm:"index" json:"branch_id"`
	Name       string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Username   string    `gorm:"index;size:100;not null" json:"username" binding:"required"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Role       string    `gorm:"size:50;not null;default:'sales'" json:"role"`
	IsActive   *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	BranchId int    `json:"branch_id"`
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type SigninInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Session struct {
	Token      string `json:"token"`
	BusinessId string `json:"business_id"`
	BranchId   int    `json:"branch_id"`
	UserId     int    `json:"user_id"`
	UserName   string `json:"user_name"`
	Username   string `json:"username"`
}

func (u User) GetBusinessId() string {
	return u.BusinessId
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = "sales"
	}

	db := config.GetDB()
	user := User{
		BusinessId: businessId,
		BranchId:   input.BranchId,
		Name:       input.Name,
		Username:   input.Username,
		Password:   string(hashed),
		Role:       role,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Signin verifies credentials and opens a redis-backed session. A JWT carrying
// the user id and role is also issued for service-to-service callers.
func Signin(ctx context.Context, input *SigninInput) (*Session, string, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, "", err
	}

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ?", input.Username).First(&user).Error
	if err != nil {
		return nil, "", errors.New("invalid username or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, "", errors.New("user is inactive")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, "", errors.New("invalid username or password")
	}

	session := Session{
		Token:      uuid.NewString(),
		BusinessId: user.BusinessId,
		BranchId:   user.BranchId,
		UserId:     user.ID,
		UserName:   user.Name,
		Username:   user.Username,
	}
	if err := config.SetRedisObject("Session:"+session.Token, &session, utils.GetCacheLifespan()); err != nil {
		return nil, "", err
	}

	jwtToken, err := utils.JwtGenerate(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &session, jwtToken, nil
}

func GetSession(token string) (*Session, error) {
	var session Session
	exists, err := config.GetRedisObject("Session:"+token, &session)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &session, nil
}
