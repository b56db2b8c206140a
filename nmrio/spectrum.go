/*
 * spectrum.go, part of gonmr.
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
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	nmr "github.com/rmera/gonmr"
	"github.com/rmera/gonmr/lineshape"
	"github.com/vmihailenco/msgpack/v5"
)

// WriteSpectrum writes s to the file name. Names ending in .msgpack (before any
// compression suffix) get a msgpack document, everything else a two-column text
// table. The file is compressed according to its suffix, see Compression.
func WriteSpectrum(name string, s *lineshape.Spectrum) (err error) {
	if s == nil || len(s.X) != len(s.Y) {
		return nmr.NewError(nmr.ErrInvalidParameter, "WriteSpectrum", "nil or malformed spectrum")
	}
	w, err := Create(name)
	if err != nil {
		return nmr.Decorate(err, "WriteSpectrum")
	}
	defer func() {
		if err2 := w.Close(); err == nil && err2 != nil {
			err = nmr.Decorate(err2, "WriteSpectrum")
		}
	}()
	if _, base := Compression(name); strings.EqualFold(filepath.Ext(base), ".msgpack") {
		if err := msgpack.NewEncoder(w).Encode(s); err != nil {
			return nmr.Decorate(err, "WriteSpectrum")
		}
		return nil
	}
	if err := EncodeSpectrum(w, s); err != nil {
		return nmr.Decorate(err, "WriteSpectrum")
	}
	return nil
}

// EncodeSpectrum writes s to w as a text table, one "x y" pair per line, after a
// comment header. The numbers are written with full precision.
func EncodeSpectrum(w io.Writer, s *lineshape.Spectrum) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "# %d points\n# Hz intensity\n", s.Len())
	line := make([]byte, 0, 64)
	for i := range s.X {
		line = strconv.AppendFloat(line[:0], s.X[i], 'g', -1, 64)
		line = append(line, ' ')
		line = strconv.AppendFloat(line, s.Y[i], 'g', -1, 64)
		line = append(line, '\n')
		if _, err := b.Write(line); err != nil {
			return err
		}
	}
	return b.Flush()
}

// ReadSpectrum reads a spectrum written by WriteSpectrum.
func ReadSpectrum(name string) (*lineshape.Spectrum, error) {
	r, err := Open(name)
	if err != nil {
		return nil, nmr.Decorate(err, "ReadSpectrum")
	}
	defer r.Close()
	if _, base := Compression(name); strings.EqualFold(filepath.Ext(base), ".msgpack") {
		s := new(lineshape.Spectrum)
		if err := msgpack.NewDecoder(r).Decode(s); err != nil {
			return nil, nmr.Decorate(err, "ReadSpectrum")
		}
		if len(s.X) != len(s.Y) {
			return nil, nmr.NewError(nmr.ErrInvalidDimension, "ReadSpectrum", "%d x values, %d y values", len(s.X), len(s.Y))
		}
		return s, nil
	}
	s, err := DecodeSpectrum(r)
	if err != nil {
		return nil, nmr.Decorate(err, "ReadSpectrum: "+name)
	}
	return s, nil
}

// DecodeSpectrum reads a text table of "x y" pairs. Blank lines and lines starting
// with # are skipped.
func DecodeSpectrum(r io.Reader) (*lineshape.Spectrum, error) {
	s := new(lineshape.Spectrum)
	sc := bufio.NewScanner(r)
	var n int
	for sc.Scan() {
		n++
		str := strings.TrimSpace(sc.Text())
		if str == "" || strings.HasPrefix(str, "#") {
			continue
		}
		fields := strings.Fields(str)
		if len(fields) != 2 {
			return nil, nmr.NewError(nmr.ErrInvalidDimension, "DecodeSpectrum", "line %d: expected 2 columns, got %d", n, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, "DecodeSpectrum", "line %d: %v", n, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, nmr.NewError(nmr.ErrInvalidParameter, "DecodeSpectrum", "line %d: %v", n, err)
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
