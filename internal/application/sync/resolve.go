package sync

import (
	"strings"

	"github.com/billsync/backend/internal/infrastructure/settings"
)

// Defaults carries the static configuration fallbacks used when neither an
// explicit call argument nor the persisted settings provide a value.
type Defaults struct {
	Series         string
	Warehouse      string
	AutoInvoice    bool
	AutoCreditNote bool
}

// ResolveSeries picks the document series: explicit call argument, then the
// persisted settings, then the static default.
func ResolveSeries(explicit string, s settings.Settings, defaults Defaults) string {
	if v := strings.TrimSpace(explicit); v != "" {
		return v
	}
	if v := strings.TrimSpace(s.DefaultSeries); v != "" {
		return v
	}
	return defaults.Series
}

// ResolveWarehouse picks the warehouse the same way as ResolveSeries, then
// translates the result through the settings warehouse map when an entry
// exists for it.
func ResolveWarehouse(explicit string, s settings.Settings, defaults Defaults) string {
	name := strings.TrimSpace(explicit)
	if name == "" {
		name = strings.TrimSpace(s.DefaultWarehouse)
	}
	if name == "" {
		name = defaults.Warehouse
	}
	if mapped, ok := s.WarehouseMap[name]; ok && strings.TrimSpace(mapped) != "" {
		return mapped
	}
	return name
}

// AutoInvoiceEnabled reports whether paid orders should be invoiced
// automatically: the persisted setting or the static flag.
func AutoInvoiceEnabled(s settings.Settings, defaults Defaults) bool {
	return s.AutoInvoice || defaults.AutoInvoice
}

// AutoCreditNoteEnabled reports whether refunds should produce credit notes
// automatically
func AutoCreditNoteEnabled(s settings.Settings, defaults Defaults) bool {
	return s.AutoCreditNote || defaults.AutoCreditNote
}
