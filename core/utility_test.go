// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"reflect"
	"testing"
)

func TestSafeString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "\x00"},
		{"VK_KHR_surface", "VK_KHR_surface\x00"},
		{"VK_KHR_surface\x00", "VK_KHR_surface\x00"},
		{"VK_KHR_surface\x00\x00", "VK_KHR_surface\x00"},
	}
	for _, test := range tests {
		if got := safeString(test.in); got != test.want {
			t.Errorf("safeString(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique(nil, "VK_KHR_surface\x00", "VK_KHR_xcb_surface")
	got = appendUnique(got, "VK_KHR_surface", "VK_EXT_debug_report", "VK_KHR_xcb_surface\x00")
	want := []string{"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_EXT_debug_report"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	if safe := safeStrings(got); safe[2] != "VK_EXT_debug_report\x00" {
		t.Errorf("unexpected safe name %q", safe[2])
	}
}

func BenchmarkAppendUnique(b *testing.B) {
	names := []string{
		"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_KHR_xlib_surface",
		"VK_KHR_wayland_surface", "VK_EXT_debug_report", "VK_KHR_get_physical_device_properties2",
	}
	for idx := 0; idx < b.N; idx++ {
		appendUnique(appendUnique(nil, names...), names...)
	}
}
