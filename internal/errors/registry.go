package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (L001-L019)
	// ============================================

	"L001": {
		Category: CategoryRuntime,
		Message:  "Module not found in client registry",
		Detail:   "A module imported another module that has no entry in the client module table. Modules must be emitted in dependency-safe order so that every import target is registered before it is imported.",
		DocURL:   "https://lumen.dev/docs/errors/L001",
	},
	"L002": {
		Category: CategoryRuntime,
		Message:  "Hot update failed to apply",
		Detail:   "Executing the received module body raised an error. The client falls back to a full page reload so the module table never mixes old and new bindings.",
		DocURL:   "https://lumen.dev/docs/errors/L002",
	},

	// ============================================
	// Graph Errors (L010-L019)
	// ============================================

	"L010": {
		Category: CategoryGraph,
		Message:  "Import target missing from bundle metadata",
		Detail:   "A module imports a file the bundler did not report. The forward edge is recorded without a reverse pointer; changes to the target will not invalidate its importers.",
		DocURL:   "https://lumen.dev/docs/errors/L010",
	},

	// ============================================
	// Protocol Errors (L020-L029)
	// ============================================

	"L020": {
		Category: CategoryProtocol,
		Message:  "Malformed update message",
		Detail:   "The client received a message that could not be decoded as an update or reload instruction.",
		DocURL:   "https://lumen.dev/docs/errors/L020",
	},

	// ============================================
	// Build Errors (L100-L109)
	// ============================================

	"L100": {
		Category: CategoryBuild,
		Message:  "Bundle build failed",
		Detail:   "The bundler exited with an error. The full bundler output follows.",
		DocURL:   "https://lumen.dev/docs/errors/L100",
	},
	"L101": {
		Category: CategoryBuild,
		Message:  "Bundle metadata unreadable",
		Detail:   "The bundler completed but its metafile was missing or could not be parsed, so the module graph cannot be built.",
		DocURL:   "https://lumen.dev/docs/errors/L101",
	},

	// ============================================
	// Transform Errors (L110-L119)
	// ============================================

	"L110": {
		Category: CategoryTransform,
		Message:  "Syntax transform rejected source",
		Detail:   "The module source could not be transformed, usually because of a syntax error. The change event is aborted and all clients receive a full reload after the next rebuild.",
		DocURL:   "https://lumen.dev/docs/errors/L110",
	},
	"L111": {
		Category: CategoryTransform,
		Message:  "Module source unreadable",
		Detail:   "The source file for a module id could not be read from disk. The file may have been removed between the change event and the transform.",
		DocURL:   "https://lumen.dev/docs/errors/L111",
	},

	// ============================================
	// Config Errors (L120-L129)
	// ============================================

	"L120": {
		Category: CategoryConfig,
		Message:  "Invalid lumen.json",
		Detail:   "The configuration file could not be parsed.",
		DocURL:   "https://lumen.dev/docs/errors/L120",
	},
	"L121": {
		Category: CategoryConfig,
		Message:  "Project configuration not found",
		Detail:   "No lumen.json was found in the project directory.",
		DocURL:   "https://lumen.dev/docs/errors/L121",
	},

	// ============================================
	// CLI Errors (L130-L139)
	// ============================================

	"L130": {
		Category: CategoryCLI,
		Message:  "Bundler binary not found",
		Detail:   "The esbuild binary is not installed or not in PATH.",
		DocURL:   "https://lumen.dev/docs/errors/L130",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
