package workflow

import (
	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BackfillServiceOrders generates the order-level service order for every
// confirmed sale in the tenant that has sale-tracked lines but no generated
// order yet. Safe to re-run: the find-or-create step skips sales already
// covered. Returns how many service orders were created.
func BackfillServiceOrders(tx *gorm.DB, logger *logrus.Logger, businessId string) (int, error) {

	var sales []*models.SaleOrder
	err := tx.
		Where("business_id = ?", businessId).
		Where("current_status = ?", models.SaleOrderStatusConfirmed).
		Where("id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.SaleOrderDetail{}).
			Select("sale_order_id").
			Where("field_service_tracking = ?", models.FieldServiceTrackingSale)).
		Preload("Details").
		Order("id").
		Find(&sales).Error
	if err != nil {
		config.LogError(logger, "serviceOrderBackfill.go", "BackfillServiceOrders", "fetch confirmed sales", businessId, err)
		return 0, err
	}
	if len(sales) == 0 {
		return 0, nil
	}

	// skip sales that cannot generate (no location); they need a manual fix
	eligible := make([]*models.SaleOrder, 0, len(sales))
	for _, sale := range sales {
		if sale.ServiceLocationId == 0 {
			logger.WithFields(logrus.Fields{
				"business_id":   businessId,
				"sale_order_id": sale.ID,
			}).Warn("skipping sale without service location")
			continue
		}
		eligible = append(eligible, sale)
	}
	if len(eligible) == 0 {
		return 0, nil
	}

	ids := make([]int, 0, len(eligible))
	for _, sale := range eligible {
		ids = append(ids, sale.ID)
	}
	var existing int64
	err = tx.Model(&models.ServiceOrder{}).
		Where("sale_order_id IN ?", ids).
		Where("sale_order_detail_id = 0").
		Count(&existing).Error
	if err != nil {
		config.LogError(logger, "serviceOrderBackfill.go", "BackfillServiceOrders", "count existing service orders", businessId, err)
		return 0, err
	}

	if err := AcquireServiceOrderBackfillLock(tx, businessId); err != nil {
		return 0, err
	}
	defer ReleaseServiceOrderBackfillLock(tx, businessId)

	if _, err := models.FindOrCreateServiceOrders(tx, eligible); err != nil {
		config.LogError(logger, "serviceOrderBackfill.go", "BackfillServiceOrders", "find or create service orders", businessId, err)
		return 0, err
	}

	created := len(eligible) - int(existing)
	if created < 0 {
		created = 0
	}
	logger.WithFields(logrus.Fields{
		"business_id": businessId,
		"sales":       len(eligible),
		"created":     created,
	}).Info("service order backfill complete")
	return created, nil
}
