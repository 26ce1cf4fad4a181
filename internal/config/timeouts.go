package config

// StackTimeout resolves the timeout sent with a stack create request.
//
//   - nil uses BayCreateTimeout
//   - 0 means no timeout and nothing is sent
//   - a positive value is sent verbatim
//
// The result is nil when no timeout should be sent.
func (h HeatConfig) StackTimeout(requested *int) *int {
	minutes := h.BayCreateTimeout
	if requested != nil {
		minutes = *requested
	}
	if minutes <= 0 {
		return nil
	}
	return &minutes
}
