package processor

import "context"

// Processor defines the interface for handling one dropped audio file
type Processor interface {
	Process(ctx context.Context, audioPath string) error
}
