// seehuhn.de/go/tileroute - draw GPS routes onto raster map tiles
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tile

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register the decoder
)

// JPEGQuality is used when re-encoding JPEG tiles.
const JPEGQuality = 90

// Decode decodes the tile image into a premultiplied RGBA buffer with its
// origin at (0, 0).  The returned string is the detected image format.
func Decode(t *Tile) (*image.RGBA, string, error) {
	img, format, err := image.Decode(bytes.NewReader(t.Data))
	if err != nil {
		return nil, "", fmt.Errorf("decode tile: %w", err)
	}
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba, format, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, format, nil
}

// Encode encodes img in the given format.  Formats without an encoder,
// i.e. webp, are written as png.  The returned string is the format which
// was actually used.
func Encode(img image.Image, format string) ([]byte, string, error) {
	buf := &bytes.Buffer{}
	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality})
	case "gif":
		err = gif.Encode(buf, img, nil)
	case "bmp":
		err = bmp.Encode(buf, img)
	case "tiff":
		err = tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		format = "png"
		err = png.Encode(buf, img)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s tile: %w", format, err)
	}
	return buf.Bytes(), format, nil
}

// Solid returns a w×h tile filled with a single colour.
func Solid(w, h int, c color.Color, format string) (*Tile, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	data, format, err := Encode(img, format)
	if err != nil {
		return nil, err
	}
	return &Tile{Data: data, Width: w, Height: h, Format: format}, nil
}

// Ext returns the usual file name extension for an image format, without
// the leading dot.
func Ext(format string) string {
	switch format {
	case "jpeg":
		return "jpg"
	case "tiff":
		return "tif"
	case "":
		return "png"
	default:
		return format
	}
}

// FormatFromExt is the inverse of [Ext].  It returns the empty string for
// unknown extensions.
func FormatFromExt(ext string) string {
	switch ext {
	case "jpg", "jpeg":
		return "jpeg"
	case "tif", "tiff":
		return "tiff"
	case "png", "gif", "bmp", "webp":
		return ext
	default:
		return ""
	}
}
