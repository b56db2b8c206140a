/*
 * compress.go, part of gonmr.
 *
 * Copyright 2026 The gonmr authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package nmrio

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression returns the compression format implied by the name's suffix
// ("zstd" for .zst, "gzip" for .gz, "flate" for .z) and the name without that
// suffix. Any other name is "plain" and is returned unchanged.
func Compression(name string) (format, base string) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".zst":
		format = "zstd"
	case ".gz":
		format = "gzip"
	case ".z":
		format = "flate"
	default:
		return "plain", name
	}
	return format, name[:len(name)-len(ext)]
}

// fileWriter closes the compressor before the file under it.
type fileWriter struct {
	io.WriteCloser
	f *os.File
}

func (w *fileWriter) Close() error {
	err := w.WriteCloser.Close()
	if err2 := w.f.Close(); err == nil {
		err = err2
	}
	return err
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Create creates the file name and returns a writer that compresses
// according to the suffix of name. Closing the writer closes the file.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	var w io.WriteCloser
	switch format, _ := Compression(name); format {
	case "zstd":
		w, err = zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case "gzip":
		w, err = gzip.NewWriterLevel(f, gzip.BestCompression)
	case "flate":
		w, err = flate.NewWriter(f, flate.BestCompression)
	default:
		w = nopWriteCloser{f}
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriter{w, f}, nil
}

// zstdReadCloser gives *zstd.Decoder the io.ReadCloser Close signature.
type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

type fileReader struct {
	io.ReadCloser
	f *os.File
}

func (r *fileReader) Close() error {
	err := r.ReadCloser.Close()
	if err2 := r.f.Close(); err == nil {
		err = err2
	}
	return err
}

// Open opens the file name for reading, decompressing according to its suffix.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	var r io.ReadCloser
	switch format, _ := Compression(name); format {
	case "zstd":
		var d *zstd.Decoder
		d, err = zstd.NewReader(f)
		if err == nil {
			r = zstdReadCloser{d}
		}
	case "gzip":
		r, err = gzip.NewReader(f)
	case "flate":
		r = flate.NewReader(f)
	default:
		r = io.NopCloser(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileReader{r, f}, nil
}
