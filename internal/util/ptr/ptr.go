// Package ptr provides helpers for optional values.
package ptr

// To returns a pointer to v.
func To[T any](v T) *T { return &v }

// Int returns a pointer to the given int value.
func Int(i int) *int { return &i }

// Bool returns a pointer to the given bool value.
func Bool(b bool) *bool { return &b }

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
