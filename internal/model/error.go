package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeReviewNotFound      = "REVIEW_NOT_FOUND"
	ErrCodeDesignNotFound      = "DESIGN_NOT_FOUND"
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeWishlistNotFound    = "WISHLIST_NOT_FOUND"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeTotalMismatch       = "TOTAL_MISMATCH"
	ErrCodeInvalidCoupon       = "INVALID_COUPON"
	ErrCodeDuplicateReview     = "DUPLICATE_REVIEW"
	ErrCodeDuplicateWishlist   = "DUPLICATE_WISHLIST_ITEM"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodePaymentVerification = "PAYMENT_VERIFICATION_FAILED"
	ErrCodeInvalidTransition   = "INVALID_STATUS_TRANSITION"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message so
// handlers can map business failures to HTTP statuses.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound       = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrReviewNotFound      = NewDomainError(ErrCodeReviewNotFound, "Review not found")
	ErrDesignNotFound      = NewDomainError(ErrCodeDesignNotFound, "Design not found")
	ErrUserNotFound        = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrWishlistNotFound    = NewDomainError(ErrCodeWishlistNotFound, "Wishlist not found")
	ErrInvalidQuantity     = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidAmount       = NewDomainError(ErrCodeInvalidAmount, "Invalid amount")
	ErrInvalidCoupon       = NewDomainError(ErrCodeInvalidCoupon, "Coupon code is not valid")
	ErrDuplicateReview     = NewDomainError(ErrCodeDuplicateReview, "You have already reviewed this product")
	ErrDuplicateWishlist   = NewDomainError(ErrCodeDuplicateWishlist, "Product already in wishlist")
	ErrDuplicateEmail      = NewDomainError(ErrCodeDuplicateEmail, "An account with this email already exists")
	ErrInvalidCredentials  = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
	ErrPaymentVerification = NewDomainError(ErrCodePaymentVerification, "Payment verification failed")
	ErrForbidden           = NewDomainError(ErrCodeForbidden, "You do not have permission to access this resource")
	ErrInvalidTransition   = NewDomainError(ErrCodeInvalidTransition, "Status transition not allowed")
)
