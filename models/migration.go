package models

import (
	"log"

	"github.com/mmdatafocus/fieldservice_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Branch{}, &Business{},
		&Comment{}, &Customer{},
		&History{},
		&Product{},
		&SaleOrder{}, &SaleOrderDetail{},
		&ServiceCategory{}, &ServiceLocation{}, &ServiceOrder{}, &ServiceTemplate{},
		&User{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
