package config

import (
	"os"
	"strings"
)

// ServiceOrderLocks controls whether service-order generation serializes per sale
// order (redis lock + MySQL advisory lock). Enabled by default; the original
// find-or-create had a window where two concurrent confirmations of the same sale
// could each create an order-level service order.
//
// Set via env:
// - SERVICE_ORDER_LOCKS=off (or 0/false/no) to disable
func ServiceOrderLocks() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SERVICE_ORDER_LOCKS")))
	switch v {
	case "0", "false", "no", "n", "off":
		return false
	}
	return true
}
