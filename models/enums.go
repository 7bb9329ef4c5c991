package models

import "errors"

// FieldServiceTracking is the per-product setting that controls whether (and at
// what granularity) confirming a sale generates field-service orders.
type FieldServiceTracking string

const (
	// no generation at all
	FieldServiceTrackingNo FieldServiceTracking = "no"
	// one service order for the whole sale order
	FieldServiceTrackingSale FieldServiceTracking = "sale"
	// one service order per qualifying order line
	FieldServiceTrackingLine FieldServiceTracking = "line"
)

func (t FieldServiceTracking) Valid() bool {
	switch t {
	case FieldServiceTrackingNo, FieldServiceTrackingSale, FieldServiceTrackingLine:
		return true
	}
	return false
}

type SaleOrderStatus string

const (
	SaleOrderStatusDraft     SaleOrderStatus = "Draft"
	SaleOrderStatusConfirmed SaleOrderStatus = "Confirmed"
	SaleOrderStatusCancelled SaleOrderStatus = "Cancelled"
)

func (s SaleOrderStatus) Valid() bool {
	switch s {
	case SaleOrderStatusDraft, SaleOrderStatusConfirmed, SaleOrderStatusCancelled:
		return true
	}
	return false
}

type ServiceOrderStatus string

const (
	ServiceOrderStatusRequested ServiceOrderStatus = "Requested"
	ServiceOrderStatusScheduled ServiceOrderStatus = "Scheduled"
	ServiceOrderStatusDone      ServiceOrderStatus = "Done"
	ServiceOrderStatusCancelled ServiceOrderStatus = "Cancelled"
)

func (s ServiceOrderStatus) Valid() bool {
	switch s {
	case ServiceOrderStatusRequested, ServiceOrderStatusScheduled, ServiceOrderStatusDone, ServiceOrderStatusCancelled:
		return true
	}
	return false
}

var ErrInvalidStatus = errors.New("invalid status")
