package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vango.dev/fiber/errors/"

// registry maps error codes to their templates. Detail is left empty for
// codes whose call sites always supply their own.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Hook Errors (E001-E009)
	// ============================================

	"E001": {
		Category: CategoryHook,
		Message:  "Hook called outside component render",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryHook,
		Message:  "Hook count changed between renders",
		DocURL:   docBase + "E002",
	},
	"E003": {
		Category: CategoryHook,
		Message:  "Hook state type mismatch",
		DocURL:   docBase + "E003",
	},

	// ============================================
	// Runtime Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryHost,
		Message:  "Commit aborted by host adapter failure",
		DocURL:   docBase + "E020",
	},
	"E021": {
		Category: CategoryRuntime,
		Message:  "Component panicked during render",
		DocURL:   docBase + "E021",
	},
	"E022": {
		Category: CategoryRuntime,
		Message:  "No root rendered",
		Detail:   "Render needs a host container, and Rerender a previous Render.",
		DocURL:   docBase + "E022",
	},
	"E023": {
		Category: CategoryHost,
		Message:  "Host node creation failed",
		DocURL:   docBase + "E023",
	},
	"E024": {
		Category: CategoryHost,
		Message:  "Unknown host node",
		DocURL:   docBase + "E024",
	},
	"E025": {
		Category: CategoryRuntime,
		Message:  "Too many re-renders",
		Detail:   "A component requested a re-render on every render.",
		DocURL:   docBase + "E025",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid fiber.json",
		DocURL:   docBase + "E120",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "fiber.json not found",
		DocURL:   docBase + "E121",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		DocURL:   docBase + "E122",
	},

	// ============================================
	// Scene Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryScene,
		Message:  "Invalid scene file",
		DocURL:   docBase + "E130",
	},
	"E131": {
		Category: CategoryScene,
		Message:  "Unknown component in scene",
		DocURL:   docBase + "E131",
	},
	"E132": {
		Category: CategoryScene,
		Message:  "Invalid scene node",
		DocURL:   docBase + "E132",
	},
	"E133": {
		Category: CategoryScene,
		Message:  "Scene step failed",
		DocURL:   docBase + "E133",
	},

	// ============================================
	// Snapshot Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategorySnapshot,
		Message:  "Snapshot store failed",
		DocURL:   docBase + "E140",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid command arguments",
		DocURL:   docBase + "E160",
	},
}

// GetTemplate returns the template registered for code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
