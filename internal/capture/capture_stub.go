//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"fmt"
	"image"
)

// Screen is unsupported off X11 platforms.
func Screen() (*image.RGBA, error) {
	return nil, fmt.Errorf("screen capture is not supported on this platform")
}

// Region is unsupported off X11 platforms.
func Region(image.Rectangle) (*image.RGBA, error) {
	return nil, fmt.Errorf("screen capture is not supported on this platform")
}
