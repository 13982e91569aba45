package errors

// ERR is the category of an *Error. Values are stable and may be persisted or logged.
type ERR int32

//nolint:revive,stylecheck // upper case codes mirror the wire names used elsewhere in the node
const (
	ERR_UNKNOWN          ERR = 0
	ERR_INVALID_ARGUMENT ERR = 1
	ERR_NOT_FOUND        ERR = 2
	ERR_PROCESSING       ERR = 3
	ERR_CONFIGURATION    ERR = 4
	ERR_CONTEXT_CANCELED ERR = 5
	ERR_ERROR            ERR = 9
	ERR_BLOCK_NOT_FOUND  ERR = 10
	ERR_BLOCK_INVALID    ERR = 11
	ERR_BAD_DIFFICULTY   ERR = 12
	ERR_BLOCK_EXISTS     ERR = 13
	ERR_STORAGE_ERROR    ERR = 20
)

// ERR_name maps each code to its name.
var ERR_name = map[int32]string{ //nolint:revive,stylecheck
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "NOT_FOUND",
	3:  "PROCESSING",
	4:  "CONFIGURATION",
	5:  "CONTEXT_CANCELED",
	9:  "ERROR",
	10: "BLOCK_NOT_FOUND",
	11: "BLOCK_INVALID",
	12: "BAD_DIFFICULTY",
	13: "BLOCK_EXISTS",
	20: "STORAGE_ERROR",
}

// Enum returns the name of the code.
func (x ERR) Enum() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return "UNKNOWN"
}

func (x ERR) String() string {
	return x.Enum()
}
