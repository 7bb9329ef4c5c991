package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
	"github.com/mmdatafocus/fieldservice_backend/models"
	"github.com/mmdatafocus/fieldservice_backend/utils"
	"github.com/mmdatafocus/fieldservice_backend/workflow"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Regression: confirming a sale with tracked service lines must generate the
// linked service orders atomically, block when no location is set, and stay
// idempotent across re-runs.
func TestConfirmSaleOrder_GeneratesServiceOrders(t *testing.T) {
	ctx := setupIntegration(t)

	installation, err := models.CreateServiceCategory(ctx, &models.NewServiceCategory{Name: "Installation"})
	if err != nil {
		t.Fatalf("CreateServiceCategory: %v", err)
	}
	maintenance, err := models.CreateServiceCategory(ctx, &models.NewServiceCategory{Name: "Maintenance"})
	if err != nil {
		t.Fatalf("CreateServiceCategory: %v", err)
	}

	installTemplate, err := models.CreateServiceTemplate(ctx, &models.NewServiceTemplate{
		Name:         "AC Install",
		Instructions: "Mount the outdoor unit first.",
		Duration:     decimal.NewFromFloat(1.5),
		CategoryIds:  []int{installation.ID},
	})
	if err != nil {
		t.Fatalf("CreateServiceTemplate: %v", err)
	}
	checkTemplate, err := models.CreateServiceTemplate(ctx, &models.NewServiceTemplate{
		Name:         "AC Checkup",
		Instructions: "Verify refrigerant pressure.",
		Duration:     decimal.NewFromFloat(2),
		CategoryIds:  []int{maintenance.ID, installation.ID},
	})
	if err != nil {
		t.Fatalf("CreateServiceTemplate: %v", err)
	}
	perLineTemplate, err := models.CreateServiceTemplate(ctx, &models.NewServiceTemplate{
		Name:         "Filter Swap",
		Instructions: "Replace both filters.",
		Duration:     decimal.NewFromFloat(0.5),
		CategoryIds:  []int{maintenance.ID},
	})
	if err != nil {
		t.Fatalf("CreateServiceTemplate: %v", err)
	}

	acInstall, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:                 "AC Installation",
		SalesPrice:           decimal.NewFromInt(150),
		FieldServiceTracking: models.FieldServiceTrackingSale,
		ServiceTemplateId:    installTemplate.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	acCheck, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:                 "AC Checkup",
		SalesPrice:           decimal.NewFromInt(80),
		FieldServiceTracking: models.FieldServiceTrackingSale,
		ServiceTemplateId:    checkTemplate.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	filterSwap, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:                 "Filter Swap",
		SalesPrice:           decimal.NewFromInt(30),
		FieldServiceTracking: models.FieldServiceTrackingLine,
		ServiceTemplateId:    perLineTemplate.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	acUnit, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:       "AC Unit",
		SalesPrice: decimal.NewFromInt(900),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: "Acme Facilities"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	expectedDate := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

	// no location yet: the sale is created, confirmation must refuse
	saleOrder, err := models.CreateSaleOrder(ctx, &models.NewSaleOrder{
		CustomerId:   customer.ID,
		ExpectedDate: &expectedDate,
		Details: []models.NewSaleOrderDetail{
			{ProductId: acUnit.ID, DetailQty: decimal.NewFromInt(1)},
			{ProductId: acInstall.ID, DetailQty: decimal.NewFromInt(1)},
			{ProductId: acCheck.ID, DetailQty: decimal.NewFromInt(1)},
			{ProductId: filterSwap.ID, DetailQty: decimal.NewFromInt(2)},
		},
	})
	if err != nil {
		t.Fatalf("CreateSaleOrder: %v", err)
	}

	_, err = models.UpdateSaleOrderStatus(ctx, saleOrder.ID, models.SaleOrderStatusConfirmed)
	if err != models.ErrServiceLocationRequired {
		t.Fatalf("confirm without location: err = %v, want ErrServiceLocationRequired", err)
	}
	reloaded, err := models.GetSaleOrder(ctx, saleOrder.ID)
	if err != nil {
		t.Fatalf("GetSaleOrder: %v", err)
	}
	if reloaded.CurrentStatus != models.SaleOrderStatusDraft {
		t.Fatalf("sale status after failed confirm = %s, want Draft", reloaded.CurrentStatus)
	}
	linked, err := reloaded.LinkedServiceOrders(ctx)
	if err != nil {
		t.Fatalf("LinkedServiceOrders: %v", err)
	}
	if len(linked) != 0 {
		t.Fatalf("service orders after failed confirm = %d, want 0", len(linked))
	}

	location, err := models.CreateServiceLocation(ctx, &models.NewServiceLocation{
		CustomerId: customer.ID,
		Name:       "Acme HQ Rooftop",
		Direction:  "Freight elevator, badge required.",
	})
	if err != nil {
		t.Fatalf("CreateServiceLocation: %v", err)
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&models.SaleOrder{}).
		Where("id = ?", saleOrder.ID).
		Update("service_location_id", location.ID).Error; err != nil {
		t.Fatalf("set location: %v", err)
	}

	confirmed, err := models.UpdateSaleOrderStatus(ctx, saleOrder.ID, models.SaleOrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.CurrentStatus != models.SaleOrderStatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", confirmed.CurrentStatus)
	}

	linked, err = confirmed.LinkedServiceOrders(ctx)
	if err != nil {
		t.Fatalf("LinkedServiceOrders: %v", err)
	}
	// one order-level order for the two sale-tracked lines, one per line-tracked line
	if len(linked) != 2 {
		t.Fatalf("generated service orders = %d, want 2", len(linked))
	}

	var orderLevel, lineLevel *models.ServiceOrder
	for _, order := range linked {
		if order.SaleOrderDetailId == 0 {
			orderLevel = order
		} else {
			lineLevel = order
		}
	}
	if orderLevel == nil || lineLevel == nil {
		t.Fatalf("expected one order-level and one line-level service order, got %+v", linked)
	}

	wantTodo := "Mount the outdoor unit first.\nVerify refrigerant pressure."
	if orderLevel.Todo != wantTodo {
		t.Errorf("order-level Todo = %q, want %q", orderLevel.Todo, wantTodo)
	}
	if !orderLevel.ScheduledDuration.Equal(decimal.NewFromFloat(3.5)) {
		t.Errorf("order-level ScheduledDuration = %s, want 3.5", orderLevel.ScheduledDuration)
	}
	if orderLevel.LocationId != location.ID {
		t.Errorf("order-level LocationId = %d, want %d", orderLevel.LocationId, location.ID)
	}
	if orderLevel.LocationDirections != location.Direction {
		t.Errorf("order-level LocationDirections = %q, want %q", orderLevel.LocationDirections, location.Direction)
	}
	if orderLevel.CurrentStatus != models.ServiceOrderStatusRequested {
		t.Errorf("order-level status = %s, want Requested", orderLevel.CurrentStatus)
	}
	if orderLevel.RequestEarly == nil || !orderLevel.RequestEarly.Equal(expectedDate) {
		t.Errorf("order-level RequestEarly = %v, want %v", orderLevel.RequestEarly, expectedDate)
	}
	if orderLevel.ScheduledStartDate == nil || !orderLevel.ScheduledStartDate.Equal(expectedDate) {
		t.Errorf("order-level ScheduledStartDate = %v, want %v", orderLevel.ScheduledStartDate, expectedDate)
	}

	full, err := models.GetServiceOrder(ctx, orderLevel.ID)
	if err != nil {
		t.Fatalf("GetServiceOrder: %v", err)
	}
	if len(full.Categories) != 2 {
		t.Errorf("order-level categories = %d, want 2 (union drops duplicate)", len(full.Categories))
	}

	if !lineLevel.ScheduledDuration.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("line-level ScheduledDuration = %s, want 0.5", lineLevel.ScheduledDuration)
	}
	var filterDetailId int
	for _, detail := range confirmed.Details {
		if detail.ProductId == filterSwap.ID {
			filterDetailId = detail.ID
		}
	}
	if lineLevel.SaleOrderDetailId != filterDetailId {
		t.Errorf("line-level SaleOrderDetailId = %d, want %d", lineLevel.SaleOrderDetailId, filterDetailId)
	}

	// cross-linking: both activity streams carry the message
	soType := "service_orders"
	comments, err := models.GetComments(ctx, &orderLevel.ID, &soType, nil)
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(comments) == 0 {
		t.Error("service order has no creation message")
	}
	saleType := "sale_orders"
	comments, err = models.GetComments(ctx, &saleOrder.ID, &saleType, nil)
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(comments) < 2 {
		t.Errorf("sale order messages = %d, want one per generated service order", len(comments))
	}

	// navigation resolution over the generated set
	action, err := confirmed.ViewServiceOrders(ctx)
	if err != nil {
		t.Fatalf("ViewServiceOrders: %v", err)
	}
	if action.Type != "list" || len(action.ServiceOrderIds) != 2 {
		t.Errorf("navigation = %+v, want list of 2", action)
	}

	// backfill over already-generated sales creates nothing new
	logger := logrus.New()
	tx := db.Begin().WithContext(ctx)
	created, err := workflow.BackfillServiceOrders(tx, logger, confirmed.BusinessId)
	if err != nil {
		tx.Rollback()
		t.Fatalf("BackfillServiceOrders: %v", err)
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("backfill commit: %v", err)
	}
	if created != 0 {
		t.Errorf("backfill created = %d, want 0 (idempotent)", created)
	}

	// cancel / reopen / reconfirm keeps the generated set stable
	if _, err := models.UpdateSaleOrderStatus(ctx, saleOrder.ID, models.SaleOrderStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := models.UpdateSaleOrderStatus(ctx, saleOrder.ID, models.SaleOrderStatusDraft); err != nil {
		t.Fatalf("set back to draft: %v", err)
	}
	reconfirmed, err := models.UpdateSaleOrderStatus(ctx, saleOrder.ID, models.SaleOrderStatusConfirmed)
	if err != nil {
		t.Fatalf("reconfirm: %v", err)
	}
	linked, err = reconfirmed.LinkedServiceOrders(ctx)
	if err != nil {
		t.Fatalf("LinkedServiceOrders: %v", err)
	}
	if len(linked) != 2 {
		t.Fatalf("service orders after reconfirm = %d, want 2 (existing ones reused)", len(linked))
	}

	// direct creation without the elevated capability must be rejected
	err = db.WithContext(ctx).Create(&models.ServiceOrder{
		BusinessId:    confirmed.BusinessId,
		OrderNumber:   "FS-999",
		CustomerId:    customer.ID,
		LocationId:    location.ID,
		SaleOrderId:   saleOrder.ID,
		CurrentStatus: models.ServiceOrderStatusRequested,
	}).Error
	if err != models.ErrElevatedCreateRequired {
		t.Errorf("direct create err = %v, want ErrElevatedCreateRequired", err)
	}

	// even with the capability, a second order-level order for the same sale
	// violates the unique index
	elevatedCtx := utils.SetElevatedCreateInContext(ctx, true)
	err = db.WithContext(elevatedCtx).Create(&models.ServiceOrder{
		BusinessId:        confirmed.BusinessId,
		OrderNumber:       "FS-998",
		CustomerId:        customer.ID,
		LocationId:        location.ID,
		SaleOrderId:       saleOrder.ID,
		SaleOrderDetailId: 0,
		CurrentStatus:     models.ServiceOrderStatusRequested,
	}).Error
	if err == nil {
		t.Error("duplicate order-level insert succeeded, want unique index violation")
	}
}

// Regression: a sale with no tracked lines confirms cleanly and generates
// nothing, location or not.
func TestConfirmSaleOrder_NoServiceLines(t *testing.T) {
	ctx := setupIntegration(t)

	customer, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: "Plain Goods Co"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	widget, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:       "Widget",
		SalesPrice: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	saleOrder, err := models.CreateSaleOrder(ctx, &models.NewSaleOrder{
		CustomerId:    customer.ID,
		CurrentStatus: models.SaleOrderStatusConfirmed,
		Details: []models.NewSaleOrderDetail{
			{ProductId: widget.ID, DetailQty: decimal.NewFromInt(5)},
		},
	})
	if err != nil {
		t.Fatalf("CreateSaleOrder: %v", err)
	}
	if saleOrder.CurrentStatus != models.SaleOrderStatusConfirmed {
		t.Fatalf("status = %s, want Confirmed", saleOrder.CurrentStatus)
	}

	linked, err := saleOrder.LinkedServiceOrders(ctx)
	if err != nil {
		t.Fatalf("LinkedServiceOrders: %v", err)
	}
	if len(linked) != 0 {
		t.Errorf("service orders = %d, want 0", len(linked))
	}

	action, err := saleOrder.ViewServiceOrders(ctx)
	if err != nil {
		t.Fatalf("ViewServiceOrders: %v", err)
	}
	if action.Type != "close" {
		t.Errorf("navigation type = %q, want close", action.Type)
	}
}

// Regression: location inference follows the customer, the shipping contact
// and the commercial parent, except when the customer is its own service site.
func TestInferServiceLocation(t *testing.T) {
	ctx := setupIntegration(t)

	parent, err := models.CreateCustomer(ctx, &models.NewCustomer{Name: "Parent Corp"})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	contact, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:             "Site Contact",
		ParentCustomerId: parent.ID,
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	parentLocation, err := models.CreateServiceLocation(ctx, &models.NewServiceLocation{
		CustomerId: parent.ID,
		Name:       "Parent Plant",
	})
	if err != nil {
		t.Fatalf("CreateServiceLocation: %v", err)
	}

	// contact has no location of its own: the parent's location is inferred
	inferred, err := models.InferServiceLocation(ctx, contact.ID, 0)
	if err != nil {
		t.Fatalf("InferServiceLocation: %v", err)
	}
	if inferred == nil || inferred.ID != parentLocation.ID {
		t.Errorf("inferred = %+v, want parent location %d", inferred, parentLocation.ID)
	}

	// a customer marked as its own service site ignores parent candidates
	site, err := models.CreateCustomer(ctx, &models.NewCustomer{
		Name:             "On-Site Branch",
		ParentCustomerId: parent.ID,
		IsServiceSite:    utils.NewTrue(),
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	inferred, err = models.InferServiceLocation(ctx, site.ID, 0)
	if err != nil {
		t.Fatalf("InferServiceLocation: %v", err)
	}
	if inferred != nil {
		t.Errorf("inferred = %+v, want nil for service site without own location", inferred)
	}

	siteLocation, err := models.CreateServiceLocation(ctx, &models.NewServiceLocation{
		CustomerId: site.ID,
		Name:       "Branch Yard",
	})
	if err != nil {
		t.Fatalf("CreateServiceLocation: %v", err)
	}
	inferred, err = models.InferServiceLocation(ctx, site.ID, 0)
	if err != nil {
		t.Fatalf("InferServiceLocation: %v", err)
	}
	if inferred == nil || inferred.ID != siteLocation.ID {
		t.Errorf("inferred = %+v, want own location %d", inferred, siteLocation.ID)
	}
}

func setupIntegration(t *testing.T) context.Context {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "fieldservice_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
	if err := config.ClearRedis(ctx); err != nil {
		t.Fatalf("ClearRedis: %v", err)
	}

	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	ctx = utils.SetUsernameInContext(ctx, "test@local")

	business, err := models.CreateBusiness(ctx, &models.NewBusiness{
		Name:  "Field Service Co",
		Email: "owner@fieldservice.test",
	})
	if err != nil {
		t.Fatalf("CreateBusiness: %v", err)
	}
	ctx = utils.SetBusinessIdInContext(ctx, business.ID.String())
	ctx = utils.SetBranchIdInContext(ctx, business.PrimaryBranchId)
	return ctx
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("fieldservice-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("fieldservice-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=fieldservice_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
