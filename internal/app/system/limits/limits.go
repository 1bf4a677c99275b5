// Package limits holds request body size caps.
package limits

// MaxLoginFormSize caps the sign-in POST body.
const MaxLoginFormSize = 16 << 10
