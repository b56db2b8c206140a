/*
 * peaks.go, part of gonmr.
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
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	nmr "github.com/rmera/gonmr"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// peakFile is the document written for a peak list.
type peakFile struct {
	Peaks nmr.Peaks `json:"peaks" yaml:"peaks" msgpack:"peaks"`
}

// EncodePeaks writes p to w in the given format: "json", "yaml" or "msgpack".
func EncodePeaks(w io.Writer, p nmr.Peaks, format string) error {
	doc := peakFile{Peaks: p}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml":
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(doc)
	}
	return nmr.NewError(nmr.ErrInvalidParameter, "EncodePeaks", "unknown format %q", format)
}

// DecodePeaks reads a peak list written by EncodePeaks in the same format.
func DecodePeaks(r io.Reader, format string) (nmr.Peaks, error) {
	var doc peakFile
	var err error
	switch format {
	case "json":
		err = json.NewDecoder(r).Decode(&doc)
	case "yaml":
		err = yaml.NewDecoder(r).Decode(&doc)
	case "msgpack":
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, nmr.NewError(nmr.ErrInvalidParameter, "DecodePeaks", "unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return doc.Peaks, nil
}

// Format returns the serialization format for a file name, from its extension
// (after removing any compression suffix). Unknown extensions give "json".
func Format(name string) string {
	_, base := Compression(name)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".msgpack", ".mpk":
		return "msgpack"
	}
	return "json"
}

// WritePeaks writes p to the file name, in the format given by Format, compressed
// according to its suffix.
func WritePeaks(name string, p nmr.Peaks) (err error) {
	w, err := Create(name)
	if err != nil {
		return nmr.Decorate(err, "WritePeaks")
	}
	defer func() {
		if err2 := w.Close(); err == nil && err2 != nil {
			err = nmr.Decorate(err2, "WritePeaks")
		}
	}()
	if err := EncodePeaks(w, p, Format(name)); err != nil {
		return nmr.Decorate(err, "WritePeaks")
	}
	return nil
}

// ReadPeaks reads a peak list written by WritePeaks.
func ReadPeaks(name string) (nmr.Peaks, error) {
	r, err := Open(name)
	if err != nil {
		return nil, nmr.Decorate(err, "ReadPeaks")
	}
	defer r.Close()
	p, err := DecodePeaks(r, Format(name))
	if err != nil {
		return nil, nmr.Decorate(err, "ReadPeaks: "+name)
	}
	return p, nil
}
