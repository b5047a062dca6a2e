package metrics

import "time"

// NoopMetrics is a no-operation Recorder used when metrics are disabled.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(success bool, duration time.Duration)       {}
func (n *NoopMetrics) RecordLogout(status int)                                {}
func (n *NoopMetrics) RecordTokenCheck(status int, duration time.Duration)    {}
func (n *NoopMetrics) RecordUserOperation(op string, status int, d time.Duration) {}
func (n *NoopMetrics) RecordValidationFailure(rule string)                    {}
func (n *NoopMetrics) RecordBackendError(operation string)                    {}
