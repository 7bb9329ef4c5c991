package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrServiceLocationRequired blocks confirmation of a sale that carries
// tracked service products but no service location to send the crew to.
var ErrServiceLocationRequired = errors.New("service location must be set before confirming a sale with field service products")

type SaleOrder struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BusinessId  string          `gorm:"index;not null" json:"business_id"`
	BranchId    int             `gorm:"index;not null" json:"branch_id"`
	OrderNumber string          `gorm:"size:255;not null" json:"order_number"`
	SequenceNo  decimal.Decimal `gorm:"type:decimal(15);not null" json:"sequence_no"`
	CustomerId  int             `gorm:"index;not null" json:"customer_id" binding:"required"`
	// delivery contact; falls back to the customer when 0
	ShippingCustomerId int `gorm:"index;default:0" json:"shipping_customer_id"`
	// where generated service orders will be performed
	ServiceLocationId int `gorm:"index;default:0" json:"service_location_id"`
	// customer commitment date, copied onto generated orders as RequestEarly
	ExpectedDate  *time.Time        `json:"expected_date"`
	Notes         string            `gorm:"type:text" json:"notes"`
	CurrentStatus SaleOrderStatus   `gorm:"type:enum('Draft','Confirmed','Cancelled');not null" json:"current_status"`
	Details       []SaleOrderDetail `gorm:"foreignKey:SaleOrderId" json:"details"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleOrderDetail struct {
	ID          int             `gorm:"primary_key" json:"id"`
	SaleOrderId int             `gorm:"index;not null" json:"sale_order_id"`
	ProductId   int             `gorm:"index;not null" json:"product_id" binding:"required"`
	Name        string          `gorm:"size:100" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	DetailQty   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"detail_qty"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_rate"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	// denormalized from the product at order time so later product edits
	// do not change what an existing sale generates
	FieldServiceTracking FieldServiceTracking `gorm:"size:10;not null;default:'no'" json:"field_service_tracking"`
	ServiceTemplateId    int                  `gorm:"index;default:0" json:"service_template_id"`
}

type NewSaleOrder struct {
	BranchId           int                  `json:"branch_id"`
	CustomerId         int                  `json:"customer_id" binding:"required"`
	ShippingCustomerId int                  `json:"shipping_customer_id"`
	ServiceLocationId  int                  `json:"service_location_id"`
	ExpectedDate       *time.Time           `json:"expected_date"`
	Notes              string               `json:"notes"`
	CurrentStatus      SaleOrderStatus      `json:"current_status"`
	Details            []NewSaleOrderDetail `json:"details" binding:"required,dive"`
}

type NewSaleOrderDetail struct {
	ProductId   int             `json:"product_id" binding:"required"`
	Description string          `json:"description"`
	DetailQty   decimal.Decimal `json:"detail_qty"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
}

func (so SaleOrder) GetBusinessId() string {
	return so.BusinessId
}

func (input *NewSaleOrder) validate(ctx context.Context, businessId string) error {
	if input.CurrentStatus == "" {
		input.CurrentStatus = SaleOrderStatusDraft
	}
	if !input.CurrentStatus.Valid() {
		return ErrInvalidStatus
	}
	if err := utils.ValidateResourceId[Customer](ctx, businessId, input.CustomerId); err != nil {
		return errors.New("customer not found")
	}
	if input.ShippingCustomerId > 0 {
		if err := utils.ValidateResourceId[Customer](ctx, businessId, input.ShippingCustomerId); err != nil {
			return errors.New("shipping customer not found")
		}
	}
	if input.ServiceLocationId > 0 {
		if err := utils.ValidateResourceId[ServiceLocation](ctx, businessId, input.ServiceLocationId); err != nil {
			return errors.New("service location not found")
		}
	}
	if len(input.Details) == 0 {
		return errors.New("sale order needs at least one line")
	}
	return nil
}

func CreateSaleOrder(ctx context.Context, input *NewSaleOrder) (*SaleOrder, error) {
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
	requestedStatus := input.CurrentStatus

	branchId := input.BranchId
	if branchId <= 0 {
		if ctxBranch, ok := utils.GetBranchIdFromContext(ctx); ok {
			branchId = ctxBranch
		}
	}

	// build lines, snapshotting each product's tracking mode and template
	var details []SaleOrderDetail
	for _, item := range input.Details {
		product, err := GetResource[Product](ctx, item.ProductId)
		if err != nil {
			return nil, errors.New("product not found")
		}
		unitRate := item.UnitRate
		if unitRate.IsZero() {
			unitRate = product.SalesPrice
		}
		details = append(details, SaleOrderDetail{
			ProductId:            product.ID,
			Name:                 product.Name,
			Description:          item.Description,
			DetailQty:            item.DetailQty,
			UnitRate:             unitRate,
			TotalAmount:          unitRate.Mul(item.DetailQty),
			FieldServiceTracking: product.FieldServiceTracking,
			ServiceTemplateId:    product.ServiceTemplateId,
		})
	}

	saleOrder := SaleOrder{
		BusinessId:         businessId,
		BranchId:           branchId,
		CustomerId:         input.CustomerId,
		ShippingCustomerId: input.ShippingCustomerId,
		ServiceLocationId:  input.ServiceLocationId,
		ExpectedDate:       input.ExpectedDate,
		Notes:              input.Notes,
		CurrentStatus:      SaleOrderStatusDraft,
		Details:            details,
	}
	if saleOrder.ServiceLocationId == 0 {
		location, err := InferServiceLocation(ctx, saleOrder.CustomerId, saleOrder.ShippingCustomerId)
		if err != nil {
			return nil, err
		}
		if location != nil {
			saleOrder.ServiceLocationId = location.ID
		}
	}

	db := config.GetDB()
	tx := db.Begin()
	seqNo, err := utils.GetSequence[SaleOrder](ctx, businessId)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	saleOrder.SequenceNo = decimal.NewFromInt(seqNo)
	saleOrder.OrderNumber = "SO-" + fmt.Sprint(seqNo)

	if err := tx.WithContext(ctx).Create(&saleOrder).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// If requested "Confirmed", apply the status transition deterministically (Draft -> Confirmed).
	if requestedStatus == SaleOrderStatusConfirmed {
		if err := confirmSaleOrder(tx.WithContext(ctx), &saleOrder); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &saleOrder, nil
}

func GetSaleOrder(ctx context.Context, id int) (*SaleOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}
	return utils.FetchModel[SaleOrder](ctx, businessId, id, "Details")
}

func GetSaleOrders(ctx context.Context, status *SaleOrderStatus) ([]*SaleOrder, error) {
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("business_id = ?", businessId)
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("current_status = ?", *status)
	}
	var results []*SaleOrder
	if err := dbCtx.Preload("Details").Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// OnCustomerChanged suggests a service location when the sale's customer or
// shipping contact changes. Pure suggestion, the caller decides whether to
// apply it.
func OnCustomerChanged(ctx context.Context, customerId int, shippingCustomerId int) (*ServiceLocation, error) {
	return InferServiceLocation(ctx, customerId, shippingCustomerId)
}

// GetLinkedServiceOrders batch-loads the service orders generated from each of
// the given sales, keyed by sale order id. Covers both order-level and
// line-level generation since every service order records its sale.
func GetLinkedServiceOrders(ctx context.Context, saleOrderIds []int) (map[int][]*ServiceOrder, error) {
	result := make(map[int][]*ServiceOrder, len(saleOrderIds))
	if len(saleOrderIds) == 0 {
		return result, nil
	}
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	db := config.GetDB()
	var orders []*ServiceOrder
	err := db.WithContext(ctx).
		Where("business_id = ?", businessId).
		Where("sale_order_id IN ?", saleOrderIds).
		Order("id").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		result[order.SaleOrderId] = append(result[order.SaleOrderId], order)
	}
	return result, nil
}

func (so *SaleOrder) LinkedServiceOrders(ctx context.Context) ([]*ServiceOrder, error) {
	byId, err := GetLinkedServiceOrders(ctx, []int{so.ID})
	if err != nil {
		return nil, err
	}
	return byId[so.ID], nil
}

func (so *SaleOrder) ServiceOrderCount(ctx context.Context) (int, error) {
	orders, err := so.LinkedServiceOrders(ctx)
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}

// serviceOrderValues is what a generator feeds into createServiceOrder.
type serviceOrderValues struct {
	Todo              string
	ScheduledDuration decimal.Decimal
	Categories        []*ServiceCategory
	SaleOrderDetailId int
}

// buildServiceOrderValues aggregates the distinct templates behind the given
// lines: instructions concatenated in line order, durations summed, categories
// unioned keeping first-seen order. A template shared by several lines counts
// once.
func buildServiceOrderValues(details []SaleOrderDetail, templatesById map[int]*ServiceTemplate) serviceOrderValues {
	var notes []string
	duration := decimal.Zero
	var categories []*ServiceCategory
	seen := map[int]bool{}
	seenTemplates := map[int]bool{}

	for _, detail := range details {
		template := templatesById[detail.ServiceTemplateId]
		if template == nil || seenTemplates[template.ID] {
			continue
		}
		seenTemplates[template.ID] = true
		if strings.TrimSpace(template.Instructions) != "" {
			notes = append(notes, template.Instructions)
		}
		duration = duration.Add(template.Duration)
		for _, category := range template.Categories {
			if !seen[category.ID] {
				seen[category.ID] = true
				categories = append(categories, category)
			}
		}
	}
	return serviceOrderValues{
		Todo:              strings.Join(notes, "\n"),
		ScheduledDuration: duration,
		Categories:        categories,
	}
}

func loadTemplates(ctx context.Context, details []SaleOrderDetail) (map[int]*ServiceTemplate, error) {
	templates := map[int]*ServiceTemplate{}
	for _, detail := range details {
		if detail.ServiceTemplateId <= 0 || templates[detail.ServiceTemplateId] != nil {
			continue
		}
		template, err := GetServiceTemplate(ctx, detail.ServiceTemplateId)
		if err != nil {
			return nil, err
		}
		templates[detail.ServiceTemplateId] = template
	}
	return templates, nil
}

// createServiceOrder writes one generated order inside the caller's
// transaction, under the elevated-create capability, and cross-links the two
// records through their activity streams.
func createServiceOrder(tx *gorm.DB, saleOrder *SaleOrder, values serviceOrderValues) (*ServiceOrder, error) {
	ctx := utils.SetElevatedCreateInContext(tx.Statement.Context, true)
	txCtx := tx.WithContext(ctx)

	var directions string
	if saleOrder.ServiceLocationId > 0 {
		location, err := GetResource[ServiceLocation](ctx, saleOrder.ServiceLocationId)
		if err != nil {
			return nil, err
		}
		directions = location.Direction
	}

	seqNo, err := utils.GetSequence[ServiceOrder](ctx, saleOrder.BusinessId)
	if err != nil {
		return nil, err
	}

	serviceOrder := ServiceOrder{
		BusinessId:         saleOrder.BusinessId,
		BranchId:           saleOrder.BranchId,
		SequenceNo:         decimal.NewFromInt(seqNo),
		OrderNumber:        "FS-" + fmt.Sprint(seqNo),
		CustomerId:         saleOrder.CustomerId,
		LocationId:         saleOrder.ServiceLocationId,
		LocationDirections: directions,
		Todo:               values.Todo,
		ScheduledDuration:  values.ScheduledDuration,
		RequestEarly:       saleOrder.ExpectedDate,
		ScheduledStartDate: saleOrder.ExpectedDate,
		Categories:         values.Categories,
		SaleOrderId:        saleOrder.ID,
		SaleOrderDetailId:  values.SaleOrderDetailId,
		CurrentStatus:      ServiceOrderStatusRequested,
	}
	if err := txCtx.Create(&serviceOrder).Error; err != nil {
		return nil, err
	}

	if err := PostMessage(txCtx, "service_orders", serviceOrder.ID,
		fmt.Sprintf("This order has been created from sale order %s (id %d).", saleOrder.OrderNumber, saleOrder.ID)); err != nil {
		return nil, err
	}
	if err := PostMessage(txCtx, "sale_orders", saleOrder.ID,
		fmt.Sprintf("Service order %s (id %d) has been generated.", serviceOrder.OrderNumber, serviceOrder.ID)); err != nil {
		return nil, err
	}
	return &serviceOrder, nil
}

// FindOrCreateServiceOrders resolves the order-level service order for each
// given sale in one query and generates the missing ones. Idempotent: a sale
// that already has an order-level service order is left alone.
func FindOrCreateServiceOrders(tx *gorm.DB, saleOrders []*SaleOrder) (map[int]*ServiceOrder, error) {
	result := make(map[int]*ServiceOrder, len(saleOrders))
	if len(saleOrders) == 0 {
		return result, nil
	}
	ctx := tx.Statement.Context

	ids := make([]int, 0, len(saleOrders))
	for _, so := range saleOrders {
		ids = append(ids, so.ID)
	}

	var existing []*ServiceOrder
	err := tx.
		Where("sale_order_id IN ?", ids).
		Where("sale_order_detail_id = 0").
		Find(&existing).Error
	if err != nil {
		return nil, err
	}
	for _, order := range existing {
		result[order.SaleOrderId] = order
	}

	for _, saleOrder := range saleOrders {
		if result[saleOrder.ID] != nil {
			continue
		}
		details := saleOrder.serviceDetails(FieldServiceTrackingSale)
		templates, err := loadTemplates(ctx, details)
		if err != nil {
			return nil, err
		}
		values := buildServiceOrderValues(details, templates)
		order, err := createServiceOrder(tx, saleOrder, values)
		if err != nil {
			return nil, err
		}
		result[saleOrder.ID] = order
	}
	return result, nil
}

// serviceDetails returns the sale's lines with the given tracking mode.
func (so *SaleOrder) serviceDetails(mode FieldServiceTracking) []SaleOrderDetail {
	var details []SaleOrderDetail
	for _, detail := range so.Details {
		if detail.FieldServiceTracking == mode {
			details = append(details, detail)
		}
	}
	return details
}

func (so *SaleOrder) hasServiceDetails() bool {
	for _, detail := range so.Details {
		if detail.FieldServiceTracking != FieldServiceTrackingNo {
			return true
		}
	}
	return false
}

// LineServiceGenerator produces service orders for one tracking mode of a
// confirmed sale. Registered per mode so product-specific generation can be
// plugged in without touching the confirmation flow.
type LineServiceGenerator interface {
	Generate(tx *gorm.DB, saleOrder *SaleOrder, details []SaleOrderDetail) error
}

var serviceGenerators = map[FieldServiceTracking]LineServiceGenerator{}

func RegisterServiceGenerator(mode FieldServiceTracking, generator LineServiceGenerator) {
	serviceGenerators[mode] = generator
}

// saleLevelGenerator handles tracking mode "sale": one order-level service
// order per sale, reusing an existing one when present.
type saleLevelGenerator struct{}

func (saleLevelGenerator) Generate(tx *gorm.DB, saleOrder *SaleOrder, details []SaleOrderDetail) error {
	_, err := FindOrCreateServiceOrders(tx, []*SaleOrder{saleOrder})
	return err
}

// lineLevelGenerator handles tracking mode "line": one service order per
// qualifying line, linked back to the line.
type lineLevelGenerator struct{}

func (lineLevelGenerator) Generate(tx *gorm.DB, saleOrder *SaleOrder, details []SaleOrderDetail) error {
	ctx := tx.Statement.Context
	for _, detail := range details {
		var count int64
		err := tx.Model(&ServiceOrder{}).
			Where("sale_order_id = ?", saleOrder.ID).
			Where("sale_order_detail_id = ?", detail.ID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		templates, err := loadTemplates(ctx, []SaleOrderDetail{detail})
		if err != nil {
			return err
		}
		values := buildServiceOrderValues([]SaleOrderDetail{detail}, templates)
		values.SaleOrderDetailId = detail.ID
		if _, err := createServiceOrder(tx, saleOrder, values); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	RegisterServiceGenerator(FieldServiceTrackingSale, saleLevelGenerator{})
	RegisterServiceGenerator(FieldServiceTrackingLine, lineLevelGenerator{})
}

// generateServiceOrders dispatches the sale's tracked lines to the registered
// generators, grouped by tracking mode.
func generateServiceOrders(tx *gorm.DB, saleOrder *SaleOrder) error {
	for _, mode := range []FieldServiceTracking{FieldServiceTrackingSale, FieldServiceTrackingLine} {
		details := saleOrder.serviceDetails(mode)
		if len(details) == 0 {
			continue
		}
		generator := serviceGenerators[mode]
		if generator == nil {
			return fmt.Errorf("no service generator registered for tracking mode %q", mode)
		}
		if err := generator.Generate(tx, saleOrder, details); err != nil {
			return err
		}
	}
	return nil
}

// GET_LOCK is connection-scoped, so this must run on the same *gorm.DB that
// does the generation transaction.
func acquireServiceOrderLock(tx *gorm.DB, businessId string) error {
	lockName := fmt.Sprintf("service_order_gen:%s", businessId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire service order lock for business_id=%s", businessId)
	}
	return nil
}

func releaseServiceOrderLock(tx *gorm.DB, businessId string) {
	lockName := fmt.Sprintf("service_order_gen:%s", businessId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

// confirmSaleOrder applies the Draft -> Confirmed transition inside the
// caller's transaction. The base transition always happens first; generation
// failures then roll the whole thing back, so a sale is never Confirmed with
// its service orders missing.
func confirmSaleOrder(tx *gorm.DB, saleOrder *SaleOrder) error {
	ctx := tx.Statement.Context
	oldStatus := saleOrder.CurrentStatus

	if err := tx.Model(saleOrder).Update("CurrentStatus", SaleOrderStatusConfirmed).Error; err != nil {
		return err
	}
	saleOrder.CurrentStatus = SaleOrderStatusConfirmed
	if err := createHistory(tx, "UPDATE", saleOrder.ID, "sale_orders", oldStatus, SaleOrderStatusConfirmed,
		"SaleOrder "+saleOrder.OrderNumber+" confirmed"); err != nil {
		return err
	}

	if !saleOrder.hasServiceDetails() {
		return nil
	}
	if saleOrder.ServiceLocationId == 0 {
		return ErrServiceLocationRequired
	}

	if config.ServiceOrderLocks() {
		// both locks are best-effort serialization: the advisory lock is
		// released before the surrounding transaction commits, so a concurrent
		// confirmer can still race past it. The unique index on
		// (sale_order_id, sale_order_detail_id) is the hard guarantee; the
		// loser's insert fails and its transaction rolls back.
		if err := utils.BusinessLock(ctx, saleOrder.BusinessId, "serviceOrderGen", "saleOrder.go", "confirmSaleOrder"); err != nil {
			logger := config.GetLogger()
			config.LogError(logger, "saleOrder.go", "confirmSaleOrder", "redis lock unavailable, relying on advisory lock", saleOrder.ID, err)
		}
		if err := acquireServiceOrderLock(tx, saleOrder.BusinessId); err != nil {
			return err
		}
		defer releaseServiceOrderLock(tx, saleOrder.BusinessId)
	}

	return generateServiceOrders(tx, saleOrder)
}

// UpdateSaleOrderStatus transitions a sale between statuses. Confirming a
// sale with tracked service lines generates the linked service orders in the
// same transaction.
func UpdateSaleOrderStatus(ctx context.Context, id int, status SaleOrderStatus) (*SaleOrder, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	businessId, ok := utils.GetBusinessIdFromContext(ctx)
	if !ok || businessId == "" {
		return nil, errors.New("business id is required")
	}

	saleOrder, err := utils.FetchModel[SaleOrder](ctx, businessId, id, "Details")
	if err != nil {
		return nil, err
	}
	if saleOrder.CurrentStatus == status {
		return saleOrder, nil
	}

	db := config.GetDB()
	tx := db.Begin()
	txCtx := tx.WithContext(ctx)

	switch status {
	case SaleOrderStatusConfirmed:
		if saleOrder.CurrentStatus != SaleOrderStatusDraft {
			tx.Rollback()
			return nil, ErrInvalidStatus
		}
		if err := confirmSaleOrder(txCtx, saleOrder); err != nil {
			tx.Rollback()
			return nil, err
		}
	case SaleOrderStatusCancelled:
		oldStatus := saleOrder.CurrentStatus
		if err := txCtx.Model(saleOrder).Update("CurrentStatus", SaleOrderStatusCancelled).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		saleOrder.CurrentStatus = SaleOrderStatusCancelled
		if err := createHistory(txCtx, "UPDATE", saleOrder.ID, "sale_orders", oldStatus, SaleOrderStatusCancelled,
			"SaleOrder "+saleOrder.OrderNumber+" cancelled"); err != nil {
			tx.Rollback()
			return nil, err
		}
	case SaleOrderStatusDraft:
		// reopen a cancelled sale; generated service orders are left alone and
		// picked up again by find-or-create on the next confirm
		if saleOrder.CurrentStatus != SaleOrderStatusCancelled {
			tx.Rollback()
			return nil, ErrInvalidStatus
		}
		if err := txCtx.Model(saleOrder).Update("CurrentStatus", SaleOrderStatusDraft).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		saleOrder.CurrentStatus = SaleOrderStatusDraft
		if err := createHistory(txCtx, "UPDATE", saleOrder.ID, "sale_orders", SaleOrderStatusCancelled, SaleOrderStatusDraft,
			"SaleOrder "+saleOrder.OrderNumber+" set back to draft"); err != nil {
			tx.Rollback()
			return nil, err
		}
	default:
		tx.Rollback()
		return nil, ErrInvalidStatus
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return saleOrder, nil
}

// ViewServiceOrders resolves the navigation a client should perform to see
// this sale's generated service orders.
func (so *SaleOrder) ViewServiceOrders(ctx context.Context) (NavigationAction, error) {
	orders, err := so.LinkedServiceOrders(ctx)
	if err != nil {
		return NavigationAction{}, err
	}
	ids := make([]int, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	return ViewServiceOrdersAction(ids), nil
}
