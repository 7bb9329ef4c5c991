package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrElevatedCreateRequired is returned when a service order create is
// attempted outside the generation path. Orders are produced by confirming a
// sale, not entered directly by sales users.
var ErrElevatedCreateRequired = errors.New("service orders can only be created through an elevated workflow")

type ServiceOrder struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id"`
	BranchId    int             `gorm:"index" json:"branch_id"`
	OrderNumber string          `gorm:"size:255;not null" json:"order_number"`
	SequenceNo  decimal.Decimal `gorm:"type:decimal(15);not null" json:"sequence_no"`
	CustomerId  int             `gorm:"index;not null" json:"customer_id"`
	LocationId  int             `gorm:"index;not null" json:"location_id"`
	// snapshot of the location's access notes at generation time
	LocationDirections string `gorm:"type:text" json:"location_directions"`
	// aggregated work instructions from the originating templates
	Todo string `gorm:"type:text" json:"todo"`
	// planned hours, summed over the originating templates
	ScheduledDuration decimal.Decimal `gorm:"type:decimal(20,8);default:0" json:"scheduled_duration"`
	// earliest the customer allows work to start
	RequestEarly       *time.Time         `json:"request_early"`
	ScheduledStartDate *time.Time         `json:"scheduled_start_date"`
	Categories         []*ServiceCategory `gorm:"many2many:service_order_categories" json:"categories"`
	// originating sale; SaleOrderDetailId is 0 for order-level generation.
	// The composite unique index is the hard guarantee against duplicate
	// generation: concurrent confirmers can race past the advisory lock
	// window, but the second insert fails and rolls its transaction back.
	SaleOrderId       int                `gorm:"not null;uniqueIndex:uniq_service_orders_sale_detail,priority:1" json:"sale_order_id"`
	SaleOrderDetailId int                `gorm:"default:0;uniqueIndex:uniq_service_orders_sale_detail,priority:2" json:"sale_order_detail_id"`
	CurrentStatus     ServiceOrderStatus `gorm:"type:enum('Requested','Scheduled','Done','Cancelled');not null" json:"current_status"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (so ServiceOrder) GetBusinessId() string {
	return so.BusinessId
}

func (so *ServiceOrder) BeforeCreate(tx *gorm.DB) error {
	elevated, ok := utils.GetElevatedCreateFromContext(tx.Statement.Context)
	if !ok || !elevated {
		return ErrElevatedCreateRequired
	}
	return nil
}

func (so *ServiceOrder) AfterCreate(tx *gorm.DB) error {
	return SaveHistoryCreate(tx, so.ID, so, "Created ServiceOrder "+so.OrderNumber)
}

func GetServiceOrder(ctx context.Context, id int) (*ServiceOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[ServiceOrder](ctx, businessId, id, "Categories")
}

func GetServiceOrders(ctx context.Context, status *ServiceOrderStatus) ([]*ServiceOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("current_status = ?", *status)
	}
	var results []*ServiceOrder
	if err := dbCtx.Preload("Categories").Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func UpdateServiceOrderStatus(ctx context.Context, id int, status ServiceOrderStatus) (*ServiceOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	order, err := utils.FetchModel[ServiceOrder](ctx, businessId, id)
	if err != nil {
		return nil, err
	}
	if order.CurrentStatus == status {
		return order, nil
	}

	db := config.GetDB()
	tx := db.Begin()
	oldStatus := order.CurrentStatus
	if err := tx.WithContext(ctx).Model(order).Update("CurrentStatus", status).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := createHistory(tx.WithContext(ctx), "UPDATE", order.ID, "service_orders", oldStatus, status,
		"ServiceOrder "+order.OrderNumber+" status changed to "+string(status)); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	order.CurrentStatus = status
	return order, nil
}

// NavigationAction tells a client what to open after "view service orders".
type NavigationAction struct {
	// "close" when nothing to show, "form" for a single order, "list" otherwise
	Type            string `json:"type"`
	ServiceOrderId  int    `json:"service_order_id,omitempty"`
	ServiceOrderIds []int  `json:"service_order_ids,omitempty"`
}

func ViewServiceOrdersAction(ids []int) NavigationAction {
	switch len(ids) {
	case 0:
		return NavigationAction{Type: "close"}
	case 1:
		return NavigationAction{Type: "form", ServiceOrderId: ids[0]}
	default:
		return NavigationAction{Type: "list", ServiceOrderIds: ids}
	}
}
