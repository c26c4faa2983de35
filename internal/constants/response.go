package constants

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldErrors  = "errors"
	ResponseFieldData    = "data"
)

// Response Format Functions
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildValidationErrorResponse carries per-field errors alongside the message.
func BuildValidationErrorResponse(message string, fieldErrors map[string]string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldErrors:  fieldErrors,
	}
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
