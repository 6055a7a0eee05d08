package schema

import "fmt"

// LoadError reports a fatal schema construction failure. It is the only
// error in the system that aborts a whole validation run.
type LoadError struct {
	Msg string
}

func (e *LoadError) Error() string {
	return "schema load failed: " + e.Msg
}

func loadErrorf(format string, args ...interface{}) *LoadError {
	return &LoadError{Msg: fmt.Sprintf(format, args...)}
}

// NoPathError reports that two tables are not connected through any chain of
// foreign keys.
type NoPathError struct {
	From string
	To   string
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("no foreign key path exists between %q and %q", e.From, e.To)
}
