package renderer

import (
	"context"
	"fmt"
	"sync"

	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

// Fake records the markup it receives and returns a stub document. Used in tests and dry runs.
type Fake struct {
	mu    sync.Mutex
	Err   error
	Calls []string
}

// Render returns "%PDF-fake" followed by the markup length, or Err when set
func (f *Fake) Render(_ context.Context, markup string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, markup)
	if f.Err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, f.Err)
	}
	return []byte(fmt.Sprintf("%%PDF-fake %d", len(markup))), nil
}

// Last returns the most recent markup or ""
func (f *Fake) Last() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.Calls) == 0 {
		return ""
	}
	return f.Calls[len(f.Calls)-1]
}
