// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the reporting sinks and the persistence of accepted states
package out

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// SaveFile encodes v into file fn
func SaveFile(fn, enctype string, v interface{}, verbose bool) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(v)
	if err != nil {
		return chk.Err("cannot encode %s: %v", filepath.Base(fn), err)
	}
	err = os.WriteFile(fn, buf.Bytes(), 0644)
	if err != nil {
		return chk.Err("cannot write file %q: %v", fn, err)
	}
	if verbose {
		io.Pfblue2("file <%s> written\n", fn)
	}
	return
}

// ReadFile decodes file fn into v
func ReadFile(fn, enctype string, v interface{}) (err error) {
	fil, err := os.Open(fn)
	if err != nil {
		return chk.Err("cannot open file %q: %v", fn, err)
	}
	defer fil.Close()
	err = GetDecoder(fil, enctype).Decode(v)
	if err != nil {
		return chk.Err("cannot decode file %q: %v", fn, err)
	}
	return
}

// StatePath returns the path of the file of accepted state tidx
func StatePath(dir, key, enctype string, tidx int) string {
	return filepath.Join(dir, io.Sf("%s_s%010d.%s", key, tidx, enctype))
}

// SumPath returns the path of the summary file
func SumPath(dir, key, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_sum.%s", key, enctype))
}
