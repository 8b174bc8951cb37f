package wallet

import "time"

// Default configuration values
const (
	DefaultCurrency       = "MRU"
	DefaultCurrencySymbol = "أ.م"
	DefaultUserType       = "patient"
	DefaultMinWithdrawal  = 100
	DefaultTimeout        = 30 * time.Second
)

// Listing bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)
