package errors

var (
	ErrValidation = &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "invalid request",
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrReferenceCollision = &DomainError{
		Code:    "REFERENCE_COLLISION",
		Message: "transaction reference already exists",
	}
	ErrWalletBusy = &DomainError{
		Code:    "WALLET_BUSY",
		Message: "wallet is busy, retry shortly",
	}
	ErrPersistence = &DomainError{
		Code:    "PERSISTENCE_ERROR",
		Message: "internal server error",
	}
	ErrWithdrawalRequestNotFound = &DomainError{
		Code:    "WITHDRAWAL_REQUEST_NOT_FOUND",
		Message: "withdrawal request not found",
	}
	ErrWithdrawalNotPending = &DomainError{
		Code:    "WITHDRAWAL_NOT_PENDING",
		Message: "withdrawal request is not pending",
	}
)
