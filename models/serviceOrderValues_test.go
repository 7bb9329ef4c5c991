package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildServiceOrderValues_AggregatesTemplatesInLineOrder(t *testing.T) {
	install := &ServiceCategory{ID: 1, Name: "Installation"}
	maintain := &ServiceCategory{ID: 2, Name: "Maintenance"}

	templates := map[int]*ServiceTemplate{
		10: {
			ID:           10,
			Instructions: "Mount the unit on the north wall.",
			Duration:     decimal.NewFromFloat(1.5),
			Categories:   []*ServiceCategory{install},
		},
		20: {
			ID:           20,
			Instructions: "Flush and refill the coolant loop.",
			Duration:     decimal.NewFromFloat(2.0),
			Categories:   []*ServiceCategory{maintain, install},
		},
	}
	details := []SaleOrderDetail{
		{ID: 1, ServiceTemplateId: 10},
		{ID: 2, ServiceTemplateId: 20},
		{ID: 3, ServiceTemplateId: 0},
	}

	values := buildServiceOrderValues(details, templates)

	wantTodo := "Mount the unit on the north wall.\nFlush and refill the coolant loop."
	if values.Todo != wantTodo {
		t.Errorf("Todo = %q, want %q", values.Todo, wantTodo)
	}
	if !values.ScheduledDuration.Equal(decimal.NewFromFloat(3.5)) {
		t.Errorf("ScheduledDuration = %s, want 3.5", values.ScheduledDuration)
	}
	if len(values.Categories) != 2 {
		t.Fatalf("Categories length = %d, want 2", len(values.Categories))
	}
	// union keeps first-seen order and drops the duplicate
	if values.Categories[0].ID != install.ID || values.Categories[1].ID != maintain.ID {
		t.Errorf("Categories = [%d %d], want [%d %d]",
			values.Categories[0].ID, values.Categories[1].ID, install.ID, maintain.ID)
	}
}

func TestBuildServiceOrderValues_SharedTemplateCountsOnce(t *testing.T) {
	install := &ServiceCategory{ID: 1, Name: "Installation"}
	templates := map[int]*ServiceTemplate{
		10: {
			ID:           10,
			Instructions: "Mount the unit on the north wall.",
			Duration:     decimal.NewFromFloat(1.5),
			Categories:   []*ServiceCategory{install},
		},
	}
	// two lines selling the same templated product
	details := []SaleOrderDetail{
		{ID: 1, ServiceTemplateId: 10},
		{ID: 2, ServiceTemplateId: 10},
	}

	values := buildServiceOrderValues(details, templates)

	if values.Todo != "Mount the unit on the north wall." {
		t.Errorf("Todo = %q, want instructions once", values.Todo)
	}
	if !values.ScheduledDuration.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("ScheduledDuration = %s, want 1.5", values.ScheduledDuration)
	}
	if len(values.Categories) != 1 {
		t.Errorf("Categories length = %d, want 1", len(values.Categories))
	}
}

func TestBuildServiceOrderValues_EmptyLines(t *testing.T) {
	values := buildServiceOrderValues(nil, map[int]*ServiceTemplate{})
	if values.Todo != "" {
		t.Errorf("Todo = %q, want empty", values.Todo)
	}
	if !values.ScheduledDuration.IsZero() {
		t.Errorf("ScheduledDuration = %s, want 0", values.ScheduledDuration)
	}
	if len(values.Categories) != 0 {
		t.Errorf("Categories length = %d, want 0", len(values.Categories))
	}
}

func TestViewServiceOrdersAction(t *testing.T) {
	if got := ViewServiceOrdersAction(nil); got.Type != "close" {
		t.Errorf("no orders: Type = %q, want close", got.Type)
	}

	single := ViewServiceOrdersAction([]int{7})
	if single.Type != "form" || single.ServiceOrderId != 7 {
		t.Errorf("one order: got %+v, want form/7", single)
	}

	many := ViewServiceOrdersAction([]int{7, 8, 9})
	if many.Type != "list" || len(many.ServiceOrderIds) != 3 {
		t.Errorf("many orders: got %+v, want list of 3", many)
	}
}

func TestServiceDetailsFiltering(t *testing.T) {
	so := &SaleOrder{Details: []SaleOrderDetail{
		{ID: 1, FieldServiceTracking: FieldServiceTrackingNo},
		{ID: 2, FieldServiceTracking: FieldServiceTrackingSale},
		{ID: 3, FieldServiceTracking: FieldServiceTrackingLine},
		{ID: 4, FieldServiceTracking: FieldServiceTrackingSale},
	}}

	saleLines := so.serviceDetails(FieldServiceTrackingSale)
	if len(saleLines) != 2 || saleLines[0].ID != 2 || saleLines[1].ID != 4 {
		t.Errorf("sale lines = %+v, want ids [2 4]", saleLines)
	}
	if !so.hasServiceDetails() {
		t.Error("hasServiceDetails = false, want true")
	}

	plain := &SaleOrder{Details: []SaleOrderDetail{
		{ID: 1, FieldServiceTracking: FieldServiceTrackingNo},
	}}
	if plain.hasServiceDetails() {
		t.Error("hasServiceDetails = true for untracked sale, want false")
	}
}
