package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized           = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidCredentials     = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password"}
	EmailAlreadyRegistered = Definition{Code: "EMAIL_ALREADY_REGISTERED", Message: "Email already registered"}
	ConfirmTokenInvalid    = Definition{Code: "CONFIRM_TOKEN_INVALID", Message: "Confirmation token invalid or expired"}
	ResendRateLimited      = Definition{Code: "RESEND_RATE_LIMITED", Message: "Confirmation mail resend rate limited"}
	InvalidUserID          = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	ErrUserNotFound        = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	TooManyRequests        = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// 提交流程错误，对应表单提交端点的失败分类。
var (
	ValidationFailed = Definition{Code: "VALIDATION_FAILED", Message: "Validation failed"}
	UploadFailed     = Definition{Code: "UPLOAD_FAILED", Message: "Failed to upload document"}
	DatabaseError    = Definition{Code: "DATABASE_ERROR", Message: "Database operation failed"}
	NetworkError     = Definition{Code: "NETWORK_ERROR", Message: "Upstream network error"}
)

// 引导表单流程错误。
var (
	OnboardingStepInvalid    = Definition{Code: "ONBOARDING_STEP_INVALID", Message: "Onboarding step invalid"}
	OnboardingSessionExpired = Definition{Code: "ONBOARDING_SESSION_EXPIRED", Message: "Onboarding session expired"}
	MissingRequiredDocuments = Definition{Code: "MISSING_REQUIRED_DOCUMENTS", Message: "Required documents or terms agreement missing"}
)

// 地理编码错误。
var (
	GeocodeNoResult     = Definition{Code: "GEOCODE_NO_RESULT", Message: "No geocoding result for query"}
	GeocodeCityRequired = Definition{Code: "GEOCODE_CITY_REQUIRED", Message: "City is required to geocode an address"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:             Unauthorized,
	InvalidCredentials.Code:       InvalidCredentials,
	EmailAlreadyRegistered.Code:   EmailAlreadyRegistered,
	ConfirmTokenInvalid.Code:      ConfirmTokenInvalid,
	ResendRateLimited.Code:        ResendRateLimited,
	InvalidUserID.Code:            InvalidUserID,
	ErrUserNotFound.Code:          ErrUserNotFound,
	TooManyRequests.Code:          TooManyRequests,
	ValidationFailed.Code:         ValidationFailed,
	UploadFailed.Code:             UploadFailed,
	DatabaseError.Code:            DatabaseError,
	NetworkError.Code:             NetworkError,
	OnboardingStepInvalid.Code:    OnboardingStepInvalid,
	OnboardingSessionExpired.Code: OnboardingSessionExpired,
	MissingRequiredDocuments.Code: MissingRequiredDocuments,
	GeocodeNoResult.Code:          GeocodeNoResult,
	GeocodeCityRequired.Code:      GeocodeCityRequired,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
