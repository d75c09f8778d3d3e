package constants

import "errors"

// API and configuration errors.
var (
	ErrNoAPIsConfigured    = errors.New("no APIs configured, use 'vra apis add' to add one")
	ErrNoDomainForAPI      = errors.New("could not determine API domain")
	ErrAPIConfigNotFound   = errors.New("API configuration not found")
	ErrNoTokenForAPI       = errors.New("no token stored for this API, please run 'vra login' again")
	ErrNotAuthenticated    = errors.New("not authenticated. Use 'vra login' to authenticate first")
	ErrNoServerConfigured  = errors.New("no server configured, use --server or 'vra login'")
	ErrTenantRequired      = errors.New("tenant is required")
	ErrUsernameRequired    = errors.New("username is required")
	ErrPasswordRequired    = errors.New("password is required")
)

// Lookup errors.
var (
	ErrBusinessGroupRequired = errors.New("business group name or ID is required")
	ErrCatalogItemRequired   = errors.New("catalog item name or ID is required")
	ErrResourceIDRequired    = errors.New("resource ID is required")
	ErrRequestIDRequired     = errors.New("request ID is required")
	ErrReservationIDRequired = errors.New("reservation ID is required")
	ErrOperationNameRequired = errors.New("operation name is required")
)

// Validation errors.
var (
	ErrInvalidParametersJSON = errors.New("parameters must be a JSON object")
	ErrInvalidScaleValue     = errors.New("scale value must be greater than zero")
	ErrUnknownConfigKey      = errors.New("unknown configuration key")
	ErrTokenFieldsCannotSet  = errors.New("token fields cannot be set via config command, use 'vra login'")
)
