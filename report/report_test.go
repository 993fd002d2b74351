// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkstart/core"
	"github.com/devblok/vkstart/report"
)

var testDevices = []core.PhysicalDeviceInfo{{
	ID:            0x1f82,
	VendorID:      0x10de,
	DriverVersion: 2000,
	Type:          "discrete",
	Name:          "GeForce GTX 1650",
	Extensions:    []string{"VK_KHR_swapchain", "VK_KHR_maintenance1"},
	Layers:        []string{},
	Memory:        4 << 30,
}, {
	ID:      0x3e9b,
	Type:    "integrated",
	Name:    "Intel(R) UHD Graphics 630",
	Invalid: true,
}}

func TestWriteIsIndentedJSON(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(report.Write(&buf, report.Report{Created: 1, Devices: testDevices}), qt.IsNil)
	c.Assert(strings.Contains(buf.String(), "\n  \"devices\": ["), qt.IsTrue)
	c.Assert(strings.Contains(buf.String(), "GeForce GTX 1650"), qt.IsTrue)
}

func TestCompressedRoundTrip(t *testing.T) {
	c := qt.New(t)

	want := report.New(testDevices)
	var buf bytes.Buffer
	c.Assert(report.WriteCompressed(&buf, want), qt.IsNil)
	c.Assert(bytes.Contains(buf.Bytes(), []byte("GeForce")), qt.IsFalse)

	got, err := report.Read(&buf, true)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, want)
}

func TestReadGarbage(t *testing.T) {
	c := qt.New(t)

	_, err := report.Read(strings.NewReader("not json"), false)
	c.Assert(err, qt.ErrorMatches, "decode report: .*")
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"devices.json", "devices.json.lz4"} {
		name := name
		t.Run(name, func(t *testing.T) {
			c := qt.New(t)
			path := filepath.Join(dir, name)
			want := report.New(testDevices)

			c.Assert(report.WriteFile(path, want), qt.IsNil)
			got, err := report.ReadFile(path)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.DeepEquals, want)

			err = report.WriteFile(path, want)
			c.Assert(os.IsExist(err), qt.IsTrue)
		})
	}
}
