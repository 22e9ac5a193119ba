//go:build linux

package keysource

import "golang.org/x/sys/unix"

// MADV_POPULATE_READ was added in Linux 5.14.
const madvPopulateRead = 22

// adviseRead asks the kernel to read the mapped corpus ahead of the workers.
// Older kernels reject MADV_POPULATE_READ with EINVAL; they get a
// MADV_WILLNEED readahead hint instead. Errors are ignored.
func adviseRead(data []byte) {
	if len(data) == 0 {
		return
	}
	if unix.Madvise(data, madvPopulateRead) != nil {
		_ = unix.Madvise(data, unix.MADV_WILLNEED)
	}
}
