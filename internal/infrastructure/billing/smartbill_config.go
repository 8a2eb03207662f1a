// Package billing contains the invoicing provider adapter implementing the
// billing.AccountingGateway capability over the SmartBill cloud API.
package billing

import "errors"

// Configuration validation errors
var (
	ErrSmartBillConfigMissingToken   = errors.New("smartbill: API token is required")
	ErrSmartBillConfigMissingVATCode = errors.New("smartbill: company VAT code is required")
)

// SmartBillProductionAPIURL is the production SmartBill API base URL
const SmartBillProductionAPIURL = "https://api.smartbill.ro"

// SmartBillConfig holds the SmartBill API connection settings
type SmartBillConfig struct {
	APIBaseURL string
	Token      string
	VATCode    string // companyVatCode sent with every request

	// TimeoutSeconds bounds every request to the SmartBill API
	TimeoutSeconds int
}

// Validate checks required fields and fills in defaults
func (c *SmartBillConfig) Validate() error {
	if c.Token == "" {
		return ErrSmartBillConfigMissingToken
	}
	if c.VATCode == "" {
		return ErrSmartBillConfigMissingVATCode
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = SmartBillProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 20
	}
	return nil
}
