package domain

// opMessages holds wording that depends on the operation. Kinds not
// listed for an op fall back to kindMessages.
var opMessages = map[Op]map[ErrorKind]string{
	OpLogin: {
		KindMalformedResponse: "Login response missing access token.",
		KindUnknown:           "Login failed. Please try again.",
	},
	OpList: {
		KindUnknown: "Unable to load employees.",
	},
	OpGet: {
		KindUnknown: "Unable to load employee details.",
	},
	OpCreate: {
		KindUnknown: "Unable to save employee.",
	},
	OpUpdate: {
		KindUnknown: "Unable to save employee.",
	},
	OpDelete: {
		KindUnknown: "Failed to delete employee. Please try again.",
	},
}

var kindMessages = map[ErrorKind]string{
	KindInvalidCredentials: "Invalid credentials. Please try again.",
	KindUnreachable:        "Cannot connect to server. Is the backend running?",
	KindNotFound:           "Employee not found.",
	KindUnauthorized:       "Authentication failed. Please login again.",
	KindTimeout:            "Request timeout. Please check your connection.",
	KindMalformedResponse:  "Unexpected response from server.",
	KindValidation:         "Please correct the highlighted fields.",
	KindUnknown:            "Something went wrong. Please try again.",
}

// Describe returns the user-facing sentence for kind in the context of op.
func Describe(kind ErrorKind, op Op) string {
	if byKind, ok := opMessages[op]; ok {
		if msg, ok := byKind[kind]; ok {
			return msg
		}
	}
	if msg, ok := kindMessages[kind]; ok {
		return msg
	}
	return kindMessages[KindUnknown]
}
