// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// cropPadInches is the whitespace kept around the tight bounding box.
const cropPadInches = 0.1

// Formats lists the supported output file extensions.
var Formats = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".svg", ".pdf", ".eps"}

func (r *Plotter) save(p *plot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var buf bytes.Buffer
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		if err := r.writeRaster(&buf, p, ext); err != nil {
			return fmt.Errorf("rendering %s: %w", path, err)
		}
	case ".svg", ".pdf", ".eps":
		if err := r.writeVector(&buf, p, ext); err != nil {
			return fmt.Errorf("rendering %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported image format %q for %s (supported: %s)", ext, path, strings.Join(Formats, ", "))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (r *Plotter) drawTo(p *plot.Plot, c vg.CanvasSizer) {
	dc := draw.New(c)
	m := r.Margin
	p.Draw(draw.Crop(dc, m, -m, m, -m))
}

func (r *Plotter) writeRaster(w io.Writer, p *plot.Plot, ext string) error {
	c := vgimg.NewWith(
		vgimg.UseWH(r.Width, r.Height),
		vgimg.UseDPI(r.DPI),
		vgimg.UseBackgroundColor(color.White),
	)
	r.drawTo(p, c)

	pad := int(cropPadInches * float64(r.DPI))
	img := tightCrop(c.Image(), color.White, pad)

	switch ext {
	case ".png":
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		out, err := withPNGDensity(buf.Bytes(), r.DPI)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	default:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
}

func (r *Plotter) writeVector(w io.Writer, p *plot.Plot, ext string) error {
	var c interface {
		vg.CanvasSizer
		io.WriterTo
	}
	switch ext {
	case ".svg":
		c = vgsvg.New(r.Width, r.Height)
	case ".pdf":
		c = vgpdf.New(r.Width, r.Height)
	default:
		c = vgeps.New(r.Width, r.Height)
	}
	r.drawTo(p, c)
	_, err := c.WriteTo(w)
	return err
}

// tightCrop returns img cut down to the bounding box of pixels that differ
// from bg, grown by pad pixels on each side and clipped to the image.
func tightCrop(img image.Image, bg color.Color, pad int) image.Image {
	box, ok := contentBounds(img, bg)
	if !ok {
		return img
	}
	box = image.Rect(box.Min.X-pad, box.Min.Y-pad, box.Max.X+pad, box.Max.Y+pad).Intersect(img.Bounds())

	if s, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(box)
	}
	return img
}

// contentBounds returns the smallest rectangle containing every pixel of
// img that is not bg.
func contentBounds(img image.Image, bg color.Color) (image.Rectangle, bool) {
	br, bgc, bb, ba := bg.RGBA()
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if r == br && g == bgc && bl == bb && a == ba {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// withPNGDensity inserts a pHYs chunk after IHDR so that document
// converters size the image from its DPI rather than assuming 96.
func withPNGDensity(data []byte, dpi int) ([]byte, error) {
	const sigLen, ihdrLen = 8, 8 + 13 + 4
	if len(data) < sigLen+ihdrLen || string(data[sigLen+4:sigLen+8]) != "IHDR" {
		return nil, fmt.Errorf("malformed PNG header")
	}

	ppm := uint32(float64(dpi)/0.0254 + 0.5)
	chunk := make([]byte, 0, 4+4+9+4)
	chunk = binary.BigEndian.AppendUint32(chunk, 9)
	chunk = append(chunk, "pHYs"...)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = binary.BigEndian.AppendUint32(chunk, ppm)
	chunk = append(chunk, 1) // unit: metre
	chunk = binary.BigEndian.AppendUint32(chunk, crc32.ChecksumIEEE(chunk[4:]))

	at := sigLen + ihdrLen
	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:at]...)
	out = append(out, chunk...)
	out = append(out, data[at:]...)
	return out, nil
}
