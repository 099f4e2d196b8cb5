package inference

import "fmt"

// ArtifactError means a model, scaler or image file could not be
// loaded at startup. The process must not serve after one.
type ArtifactError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ArtifactError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("load %s %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// SchemaError means the input does not have the shape or types the
// artifacts were fitted on.
type SchemaError struct {
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err == nil {
		return "schema mismatch: " + e.Reason
	}
	return fmt.Sprintf("schema mismatch: %s: %v", e.Reason, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// DownstreamError wraps a failure that is not about the schema, such as
// an unreadable upload.
type DownstreamError struct {
	Err error
}

func (e *DownstreamError) Error() string {
	return e.Err.Error()
}

func (e *DownstreamError) Unwrap() error {
	return e.Err
}
