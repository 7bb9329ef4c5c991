package main

import (
	"context"
	"flag"
	"log"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"github.com/mmdatafocus/fieldservice_backend/workflow"
	"github.com/sirupsen/logrus"
)

// Generates the missing order-level service orders for confirmed sales of one
// tenant, or of every tenant when -business-id is omitted. Intended as a
// one-off job after importing historical sales.
func main() {
	businessId := flag.String("business-id", "", "tenant to backfill; empty runs every business")
	dryRun := flag.Bool("dry-run", false, "report what would be created without writing")
	flag.Parse()

	logger := config.GetLogger()
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	db := config.GetDB()

	var businessIds []string
	if *businessId != "" {
		businessIds = []string{*businessId}
	} else {
		var businesses []*models.Business
		if err := db.Select("id").Find(&businesses).Error; err != nil {
			log.Fatal(err)
		}
		for _, business := range businesses {
			businessIds = append(businessIds, business.ID.String())
		}
	}

	total := 0
	for _, id := range businessIds {
		ctx := utils.SetBusinessIdInContext(context.Background(), id)
		ctx = utils.SetUserIdInContext(ctx, 0)
		ctx = utils.SetUserNameInContext(ctx, "system")
		ctx = utils.SetSkipTenantScopeInContext(ctx, false)

		tx := db.Begin().WithContext(ctx)
		created, err := workflow.BackfillServiceOrders(tx, logger, id)
		if err != nil {
			tx.Rollback()
			logger.WithFields(logrus.Fields{
				"business_id": id,
			}).Error("backfill failed: " + err.Error())
			continue
		}
		if *dryRun {
			tx.Rollback()
			logger.WithFields(logrus.Fields{
				"business_id": id,
				"would_create": created,
			}).Info("dry run, rolled back")
		} else {
			if err := tx.Commit().Error; err != nil {
				logger.WithFields(logrus.Fields{
					"business_id": id,
				}).Error("commit failed: " + err.Error())
				continue
			}
			total += created
		}
	}

	logger.WithFields(logrus.Fields{
		"created": total,
	}).Info("service order backfill finished")
}
