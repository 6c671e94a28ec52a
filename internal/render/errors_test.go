package render

import (
	"context"
	"errors"
	"net"
	"testing"
)

// timeoutNetError satisfies net.Error with Timeout() == true.
type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "context deadline",
			err:  context.DeadlineExceeded,
			want: KindTimeout,
		},
		{
			name: "net timeout",
			err:  timeoutNetError{},
			want: KindTimeout,
		},
		{
			name: "connection refused",
			err:  &net.OpError{Op: "dial", Err: errors.New("connection refused")},
			want: KindNetwork,
		},
		{
			name: "anything else",
			err:  errors.New("net::ERR_ABORTED"),
			want: KindNavigation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := classifyError("https://example.com/", tt.err)

			var re *RenderError
			if !errors.As(err, &re) {
				t.Fatalf("classifyError() returned %T, want *RenderError", err)
			}
			if re.Kind != tt.want {
				t.Errorf("classifyError() kind = %v, want %v", re.Kind, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("classifyError() lost the wrapped error %v", tt.err)
			}
		})
	}
}

func TestIsTimeout(t *testing.T) {
	t.Parallel()

	timeout := classifyError("https://example.com/", context.DeadlineExceeded)
	if !IsTimeout(timeout) {
		t.Error("IsTimeout() = false for deadline error, want true")
	}

	nav := classifyError("https://example.com/", errors.New("boom"))
	if IsTimeout(nav) {
		t.Error("IsTimeout() = true for navigation error, want false")
	}

	if IsTimeout(nil) {
		t.Error("IsTimeout(nil) = true, want false")
	}
}
