//go:build linux || freebsd || openbsd || netbsd || dragonfly

// Package capture grabs screen pixels from the X server so a new tab
// can be opened straight from the display instead of a file.
package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Screen captures the whole root window of the default display.
func Screen() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	rect := image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels))
	return grab(conn, setup, screen.Root, rect)
}

// Region captures a rectangle of the root window in screen
// coordinates.
func Region(rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Canon()
	if rect.Empty() {
		return nil, fmt.Errorf("capture region is empty")
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}
	bounds := image.Rect(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels))
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("capture region is off screen")
	}
	return grab(conn, setup, screen.Root, rect)
}

func grab(conn *xgb.Conn, setup *xproto.SetupInfo, root xproto.Window, rect image.Rectangle) (*image.RGBA, error) {
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(root),
		int16(rect.Min.X), int16(rect.Min.Y),
		uint16(rect.Dx()), uint16(rect.Dy()), 0xFFFFFFFF).Reply()
	if err != nil {
		return nil, fmt.Errorf("read screen pixels: %w", err)
	}
	return decodeZPixmap(setup, reply, rect.Dx(), rect.Dy())
}

// decodeZPixmap converts a ZPixmap GetImage reply (BGRx byte order)
// into an RGBA image.
func decodeZPixmap(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture has empty geometry")
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("capture: empty image data")
	}

	bitsPerPixel := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bitsPerPixel = int(format.BitsPerPixel)
			break
		}
	}
	if bitsPerPixel == 0 {
		return nil, fmt.Errorf("unsupported capture depth %d", reply.Depth)
	}
	bytesPerPixel := bitsPerPixel / 8
	if bytesPerPixel < 3 {
		return nil, fmt.Errorf("unsupported capture pixel format %d bpp", bitsPerPixel)
	}

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) {
		return nil, fmt.Errorf("capture: unexpected stride")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			off := x * bytesPerPixel
			if off+3 > len(row) {
				break
			}
			pix := img.PixOffset(x, y)
			img.Pix[pix+0] = row[off+2]
			img.Pix[pix+1] = row[off+1]
			img.Pix[pix+2] = row[off]
			// The server leaves the pad byte undefined; captures are
			// always opaque.
			img.Pix[pix+3] = 0xFF
		}
	}
	return img, nil
}
