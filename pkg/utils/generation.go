package utils

import "context"

// GenerationRequest carries the prompt plus feature-specific configuration.
// Required fields are validated by the orchestrator before dispatch.
type GenerationRequest struct {
	Prompt          string
	AspectRatio     string
	Resolution      string
	DurationSeconds int
}

// GenerationResult is either a finished artifact (Done with ArtifactURL set)
// or a handle to a long-running provider operation to be polled.
type GenerationResult struct {
	Done        bool
	ArtifactURL string
	OperationID string
}

// GenerationCapability is the narrow seam between the orchestrator and a
// provider. Synchronous capabilities return a Done result from Complete;
// long-running ones return an operation handle which PollOperation resolves.
// Constructed once per process and injected, never a package-level singleton.
type GenerationCapability interface {
	Complete(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
	PollOperation(ctx context.Context, operationID string) (*GenerationResult, error)
}
