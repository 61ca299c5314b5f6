// Package imaging turns raw pixel buffers into the base64 PNG documents the
// turn pipeline emits. The PNG writer is deliberately self-contained: it
// always produces the same byte stream for the same pixels (8-bit RGBA,
// filter type 0, one IDAT, fixed compression level), so frame output is
// stable across runs and library versions.
package imaging

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const (
	pngBitDepth  = 8
	pngColorRGBA = 6
	zlibLevel    = 6
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// EncodePNG encodes a tightly packed, top-down RGBA buffer as a PNG image.
func EncodePNG(rgba []byte, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("imaging: invalid dimensions %dx%d", w, h)
	}
	if len(rgba) != w*h*4 {
		return nil, fmt.Errorf("imaging: pixel buffer is %d bytes, want %d for %dx%d", len(rgba), w*h*4, w, h)
	}

	var out bytes.Buffer
	out.Write(pngSignature)

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(w))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(h))
	ihdr[8] = pngBitDepth
	ihdr[9] = pngColorRGBA
	// compression, filter, interlace all zero
	writeChunk(&out, "IHDR", ihdr)

	idat, err := deflateScanlines(rgba, w, h)
	if err != nil {
		return nil, err
	}
	writeChunk(&out, "IDAT", idat)
	writeChunk(&out, "IEND", nil)

	return out.Bytes(), nil
}

// deflateScanlines prefixes every row with filter type 0 and compresses the
// whole stream as a single zlib member.
func deflateScanlines(rgba []byte, w, h int) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlibLevel)
	if err != nil {
		return nil, fmt.Errorf("imaging: zlib init: %w", err)
	}

	stride := w * 4
	filterByte := []byte{0}
	for y := 0; y < h; y++ {
		if _, err := zw.Write(filterByte); err != nil {
			return nil, fmt.Errorf("imaging: compress scanline %d: %w", y, err)
		}
		if _, err := zw.Write(rgba[y*stride : (y+1)*stride]); err != nil {
			return nil, fmt.Errorf("imaging: compress scanline %d: %w", y, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("imaging: finish compression: %w", err)
	}
	return buf.Bytes(), nil
}

// writeChunk emits length, tag, payload and the CRC32 of tag+payload.
func writeChunk(out *bytes.Buffer, tag string, payload []byte) {
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(payload)))
	out.Write(n[:])
	out.WriteString(tag)
	out.Write(payload)

	crc := crc32.NewIEEE()
	crc.Write([]byte(tag))
	crc.Write(payload)
	binary.BigEndian.PutUint32(n[:], crc.Sum32())
	out.Write(n[:])
}
