package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationMissing: "Required configuration is not set",
	CodeConfigurationError:   "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Identifier / decimals resolution
	CodeResolutionFailed:     "Identifier could not be resolved to an address",
	CodeDecimalsLookupFailed: "Token decimals could not be determined",
	CodeRegistryLookupFailed: "Registry lookup failed",

	// DEX quoting
	CodeQuoteFailed:        "Router quote call failed",
	CodeInvalidQuote:       "Invalid quote data",
	CodeContractCallFailed: "Smart contract call failed",

	// Oracle feed
	CodeOracleUnavailable: "Oracle price service unavailable",
	CodeMalformedPrice:    "Oracle returned a non-numeric price or exponent",
	CodeEmptyUpdateBundle: "Oracle returned no price update payloads",
	CodeFeeQuoteFailed:    "Oracle update fee quote failed",

	// Signal evaluation
	CodeSpreadCalculationError: "Spread calculation error",

	// Preparation / dispatch
	CodePreparationFailed: "Swap preparation failed",
	CodePrecheckFailed:    "Balance or allowance precheck failed",
	CodeDispatchFailed:    "Transaction dispatch failed",
	CodeTxReverted:        "Transaction reverted on-chain",

	// Chain/RPC errors
	CodeRPCConnectionFailed: "Failed to connect to RPC endpoint",
	CodeRPCError:            "RPC call failed",

	// Circuit breaker errors
	CodeCircuitOpen: "Circuit breaker is open",
}
