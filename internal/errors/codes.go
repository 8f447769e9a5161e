package errors

// Error codes for the FuTIL compiler.
//
// Error code ranges:
// E0001-E0099: Syntax errors
// E0100-E0199: Lookup errors raised while lowering structure
// E0200-E0299: Control program errors
// E0300-E0399: Group and assignment errors
// E0900-E0999: Internal consistency errors
// W0001-W0099: Warnings

const (
	// E0001: Source text does not match the grammar
	ErrorSyntax = "E0001"

	// E0101: A wire or condition names a cell that does not exist
	ErrorUndefinedCell = "E0101"

	// E0102: A cell exists but has no port with the given name
	ErrorUndefinedPort = "E0102"

	// E0103: A cell instantiates a component that is not in the namespace
	ErrorUndefinedComponent = "E0103"

	// E0104: A cell instantiates a primitive that is not in the library
	ErrorUndefinedPrimitive = "E0104"

	// E0105: Two cells (or two signature ports) share a name
	ErrorDuplicateCell = "E0105"

	// E0106: Two components in the namespace share a name
	ErrorDuplicateComponent = "E0106"

	// E0107: Primitive instantiated with the wrong parameters
	ErrorInvalidParams = "E0107"

	// E0108: A port is driven from an input or drives an output
	ErrorDirectionMismatch = "E0108"

	// E0109: A cell uses a name reserved by the compiler
	ErrorReservedName = "E0109"

	// E0110: A component instantiates itself
	ErrorRecursiveInstance = "E0110"

	// E0111: A port declares a negative width
	ErrorInvalidWidth = "E0111"

	// E0201: Enable or disable names a group that does not exist
	ErrorUndefinedGroup = "E0201"

	// E0202: A condition port is missing or cannot be read
	ErrorInvalidCondition = "E0202"

	// E0301: A group has no assignment to its done hole
	ErrorMissingDone = "E0301"

	// E0302: A group drives its done hole more than once
	ErrorMultipleDone = "E0302"

	// E0303: Two assignments may drive the same port at the same time
	ErrorConflictingDrivers = "E0303"

	// E0304: The done condition of a group cannot be inferred
	ErrorAmbiguousDone = "E0304"

	// E0901: The graph violates an ownership invariant
	ErrorOwnershipViolation = "E0901"

	// W0001: Source and destination widths differ
	WarningWidthMismatch = "W0001"

	// W0002: Disable inside a parallel block has no defined merge behavior
	WarningDisableInPar = "W0002"

	// W0003: A group is never referenced by the control program
	WarningUnusedGroup = "W0003"
)

// GetErrorDescription returns a human-readable description of the error code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorSyntax:
		return "Source text does not match the FuTIL grammar"
	case ErrorUndefinedCell:
		return "Cell is referenced but not declared in the component"
	case ErrorUndefinedPort:
		return "Port does not exist on the referenced cell"
	case ErrorUndefinedComponent:
		return "Component is instantiated but not defined in the namespace"
	case ErrorUndefinedPrimitive:
		return "Primitive is instantiated but not defined in the library"
	case ErrorDuplicateCell:
		return "Duplicate cell or port declaration"
	case ErrorDuplicateComponent:
		return "Duplicate component definition"
	case ErrorInvalidParams:
		return "Primitive parameters do not match its definition"
	case ErrorDirectionMismatch:
		return "Assignment source or destination has the wrong direction"
	case ErrorReservedName:
		return "Name is reserved by the compiler"
	case ErrorRecursiveInstance:
		return "Component instantiates itself"
	case ErrorInvalidWidth:
		return "Port width must not be negative"
	case ErrorUndefinedGroup:
		return "Control program references a group that does not exist"
	case ErrorInvalidCondition:
		return "Condition port is missing or not readable"
	case ErrorMissingDone:
		return "Group never drives its done hole"
	case ErrorMultipleDone:
		return "Group drives its done hole more than once"
	case ErrorConflictingDrivers:
		return "Port has more than one simultaneously active driver"
	case ErrorAmbiguousDone:
		return "Done condition of the group cannot be inferred"
	case ErrorOwnershipViolation:
		return "Internal compiler error: IR ownership invariant violated"
	case WarningWidthMismatch:
		return "Source and destination widths differ"
	case WarningDisableInPar:
		return "Disable inside par has no defined merge behavior"
	case WarningUnusedGroup:
		return "Group is never enabled by the control program"
	default:
		return "Unknown error code"
	}
}

// IsWarning returns true if the error code represents a warning rather than an error
func IsWarning(code string) bool {
	return code != "" && code[0] == 'W'
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case IsWarning(code):
		return "Warning"
	case code >= "E0001" && code < "E0100":
		return "Syntax"
	case code >= "E0100" && code < "E0200":
		return "Structure"
	case code >= "E0200" && code < "E0300":
		return "Control"
	case code >= "E0300" && code < "E0400":
		return "Group"
	case code >= "E0900" && code < "E1000":
		return "Internal"
	default:
		return "Unknown"
	}
}
