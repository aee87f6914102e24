package zakat

import "errors"

// Validation errors returned before anything is inserted into a ledger.
var (
	ErrAmountNotPositive   = errors.New("amount must be a positive number")
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrNegativeRate        = errors.New("exchange rate must not be negative")
	ErrRateNotPositive     = errors.New("exchange rate must be a positive number")
	ErrAmountNotFinite     = errors.New("amount must be a finite number")
	ErrRateNotFinite       = errors.New("exchange rate must be a finite number")
	ErrUnknownCategory     = errors.New("unknown asset category")
	ErrUnknownKarat        = errors.New("karat must be 24k, 21k or 18k")
	ErrWeightNotPositive   = errors.New("weight must be a positive number")
	ErrPriceNotPositive    = errors.New("price per gram must be a positive number")
	ErrGoldPriceNotPositive = errors.New("gold price per gram must be a positive number")
	ErrUnknownCalendar     = errors.New("calendar type must be islamic or western")
)
