// Package settings provides the mutable sync configuration record and the
// store abstraction over its persistence. The record is read fresh on every
// operation so administrative changes take effect on the next event.
package settings

import "context"

// Settings is the persisted sync configuration document
type Settings struct {
	DefaultSeries    string            `json:"defaultSeries,omitempty"`
	DefaultWarehouse string            `json:"defaultWarehouse,omitempty"`
	AutoInvoice      bool              `json:"autoInvoice,omitempty"`
	AutoCreditNote   bool              `json:"autoCreditNote,omitempty"`
	AutoSendPDF      *bool             `json:"autoSendPdf,omitempty"`
	WarehouseMap     map[string]string `json:"warehouseMap,omitempty"`
}

// Patch is a partial settings update. Nil fields are left untouched.
type Patch struct {
	DefaultSeries    *string           `json:"defaultSeries"`
	DefaultWarehouse *string           `json:"defaultWarehouse"`
	AutoInvoice      *bool             `json:"autoInvoice"`
	AutoCreditNote   *bool             `json:"autoCreditNote"`
	AutoSendPDF      *bool             `json:"autoSendPdf"`
	WarehouseMap     map[string]string `json:"warehouseMap"`
}

// SendPDF reports whether issued documents should be emailed as PDF.
// Unset means yes, matching the historical default.
func (s *Settings) SendPDF() bool {
	if s.AutoSendPDF == nil {
		return true
	}
	return *s.AutoSendPDF
}

// apply merges the patch into the settings in place
func (s *Settings) apply(p Patch) {
	if p.DefaultSeries != nil {
		s.DefaultSeries = *p.DefaultSeries
	}
	if p.DefaultWarehouse != nil {
		s.DefaultWarehouse = *p.DefaultWarehouse
	}
	if p.AutoInvoice != nil {
		s.AutoInvoice = *p.AutoInvoice
	}
	if p.AutoCreditNote != nil {
		s.AutoCreditNote = *p.AutoCreditNote
	}
	if p.AutoSendPDF != nil {
		v := *p.AutoSendPDF
		s.AutoSendPDF = &v
	}
	if p.WarehouseMap != nil {
		if s.WarehouseMap == nil {
			s.WarehouseMap = make(map[string]string, len(p.WarehouseMap))
		}
		for k, v := range p.WarehouseMap {
			s.WarehouseMap[k] = v
		}
	}
}

// Store persists the settings document. Implementations re-read the backing
// storage on every Get; callers must not cache the result across operations.
type Store interface {
	// Get returns the current settings. A missing document yields the zero
	// value, not an error.
	Get(ctx context.Context) (Settings, error)

	// Merge applies the patch on top of the current settings and persists
	// the result, returning the merged document.
	Merge(ctx context.Context, patch Patch) (Settings, error)

	// ReplaceWarehouseMap replaces the warehouse-name mapping wholesale,
	// leaving every other field untouched.
	ReplaceWarehouseMap(ctx context.Context, m map[string]string) (Settings, error)
}
