//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func testSetup() *xproto.SetupInfo {
	return &xproto.SetupInfo{
		PixmapFormats: []xproto.Format{
			{Depth: 24, BitsPerPixel: 32},
		},
	}
}

func TestDecodeZPixmap(t *testing.T) {
	// Two pixels, BGRx order: pure red then pure blue.
	reply := &xproto.GetImageReply{
		Depth: 24,
		Data: []byte{
			0x00, 0x00, 0xFF, 0x00,
			0xFF, 0x00, 0x00, 0x00,
		},
	}
	img, err := decodeZPixmap(testSetup(), reply, 2, 1)
	if err != nil {
		t.Fatalf("decodeZPixmap: %v", err)
	}
	r0 := img.RGBAAt(0, 0)
	if r0.R != 255 || r0.G != 0 || r0.B != 0 || r0.A != 255 {
		t.Fatalf("pixel 0 = %+v", r0)
	}
	r1 := img.RGBAAt(1, 0)
	if r1.B != 255 || r1.R != 0 {
		t.Fatalf("pixel 1 = %+v", r1)
	}
}

func TestDecodeZPixmapRejectsBadInput(t *testing.T) {
	if _, err := decodeZPixmap(testSetup(), nil, 2, 1); err == nil {
		t.Fatal("nil reply accepted")
	}
	reply := &xproto.GetImageReply{Depth: 8, Data: []byte{1, 2, 3}}
	if _, err := decodeZPixmap(testSetup(), reply, 1, 1); err == nil {
		t.Fatal("unknown depth accepted")
	}
	reply = &xproto.GetImageReply{Depth: 24, Data: []byte{1, 2, 3}}
	if _, err := decodeZPixmap(testSetup(), reply, 1, 2); err == nil {
		t.Fatal("short data accepted")
	}
}
