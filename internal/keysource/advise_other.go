//go:build !linux

package keysource

// adviseRead is a no-op outside Linux.
func adviseRead(data []byte) {}
