package orthomcl

import "fmt"

// FormatError reports a groups-file line that does not follow the
// "<name>: <id> <id> ..." layout.
type FormatError struct {
	File   string // source file, empty when parsed from a bare string
	LineNo int    // 1-based, 0 when unknown
	Msg    string
}

func (e *FormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s", e.File, e.LineNo, e.Msg)
	}
	return fmt.Sprintf("groups format: %s", e.Msg)
}

// OrthoGroupError reports an operation invoked before its precondition
// held, such as exporting a group that was never filtered, or handing
// an unusable sequence database to RetrieveFasta.
type OrthoGroupError struct {
	Msg string
}

func (e *OrthoGroupError) Error() string {
	return fmt.Sprintf("ortho group: %s", e.Msg)
}
