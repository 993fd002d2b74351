// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package report saves and loads physical device inventories.
// Reports ending in .lz4 are stored lz4 compressed.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pierrec/lz4"

	"github.com/devblok/vkstart/core"
)

// CompressedSuffix marks report files that are lz4 compressed.
const CompressedSuffix = ".lz4"

// Report is a snapshot of the physical devices an instance could see.
type Report struct {
	Created int64                     `json:"created"`
	Devices []core.PhysicalDeviceInfo `json:"devices"`
}

// New creates a report of devices stamped with the current time.
func New(devices []core.PhysicalDeviceInfo) Report {
	return Report{
		Created: time.Now().Unix(),
		Devices: devices,
	}
}

// Write encodes the report as indented JSON.
func Write(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCompressed encodes the report into an lz4 stream.
func WriteCompressed(w io.Writer, r Report) error {
	zw := lz4.NewWriter(w)
	if err := Write(zw, r); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// Read decodes a report, decompressing it first when compressed is set.
func Read(r io.Reader, compressed bool) (Report, error) {
	if compressed {
		r = lz4.NewReader(r)
	}
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return rep, nil
}

// IsCompressed reports whether path names a compressed report.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, CompressedSuffix)
}

// WriteFile writes the report to path, refusing to overwrite.
func WriteFile(path string, r Report) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if IsCompressed(path) {
		err = WriteCompressed(f, r)
	} else {
		err = Write(f, r)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a report written by WriteFile.
func ReadFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()
	return Read(f, IsCompressed(path))
}
