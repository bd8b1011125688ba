package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationMissing Code = "CONFIGURATION_MISSING"
	CodeConfigurationError   Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Pipeline-specific error codes
const (
	// Identifier / decimals resolution
	CodeResolutionFailed     Code = "RESOLUTION_FAILED"
	CodeDecimalsLookupFailed Code = "DECIMALS_LOOKUP_FAILED"
	CodeRegistryLookupFailed Code = "REGISTRY_LOOKUP_FAILED"

	// DEX quoting
	CodeQuoteFailed        Code = "QUOTE_FAILED"
	CodeInvalidQuote       Code = "INVALID_QUOTE"
	CodeContractCallFailed Code = "CONTRACT_CALL_FAILED"

	// Oracle feed
	CodeOracleUnavailable Code = "ORACLE_UNAVAILABLE"
	CodeMalformedPrice    Code = "MALFORMED_ORACLE_PRICE"
	CodeEmptyUpdateBundle Code = "EMPTY_UPDATE_BUNDLE"
	CodeFeeQuoteFailed    Code = "FEE_QUOTE_FAILED"

	// Signal evaluation
	CodeSpreadCalculationError Code = "SPREAD_CALCULATION_ERROR"

	// Preparation / dispatch
	CodePreparationFailed Code = "PREPARATION_FAILED"
	CodePrecheckFailed    Code = "PRECHECK_FAILED"
	CodeDispatchFailed    Code = "DISPATCH_FAILED"
	CodeTxReverted        Code = "TX_REVERTED"

	// Chain/RPC errors
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"

	// Circuit breaker errors
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
