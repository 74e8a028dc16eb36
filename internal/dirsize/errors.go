package dirsize

// StatError is returned when the metadata of a single entry cannot be read.
type StatError struct {
	Path string
	Err  error
}

func (e *StatError) Error() string {
	return "reading metadata of " + e.Path + ": " + e.Err.Error()
}

func (e *StatError) Unwrap() error {
	return e.Err
}

// ListError is returned when a directory cannot be listed.
type ListError struct {
	Path string
	Err  error
}

func (e *ListError) Error() string {
	return "listing directory " + e.Path + ": " + e.Err.Error()
}

func (e *ListError) Unwrap() error {
	return e.Err
}

// AbortError is returned by a run configured with AbortOnError.
// It carries the failure that triggered the abort.
type AbortError struct {
	Err error
}

func (e *AbortError) Error() string {
	return "aborted: " + e.Err.Error()
}

func (e *AbortError) Unwrap() error {
	return e.Err
}
