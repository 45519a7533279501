package main

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// maxFrameWidth bounds outbound webcam frames. The vision pipeline works on
// small images; shipping full camera resolution just fattens every websocket
// frame.
const maxFrameWidth = 640

const frameJPEGQuality = 80

// normalizeFrame returns data ready for upload: already-small JPEGs pass
// through untouched, anything else is decoded, scaled down to maxFrameWidth
// and re-encoded.
func normalizeFrame(data []byte) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if format == "jpeg" && cfg.Width <= maxFrameWidth {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	if cfg.Width > maxFrameWidth {
		h := cfg.Height * maxFrameWidth / cfg.Width
		dst := image.NewRGBA(image.Rect(0, 0, maxFrameWidth, h))
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
		img = dst
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: frameJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
