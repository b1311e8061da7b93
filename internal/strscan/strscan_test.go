package strscan_test

import (
	"testing"

	"github.com/Jollyhrothgar/tef-decoder/internal/strscan"
)

func lp(s string) []byte {
	l := len(s) + 1 // + trailing NUL
	return append([]byte{byte(l), byte(l >> 8)}, append([]byte(s), 0x00)...)
}

func TestScanLengthPrefixed(t *testing.T) {
	var data []byte
	data = append(data, 0xFF, 0xFF, 0xFF) // junk, not a valid length header
	data = append(data, lp("Shuckin' The Corn")...)
	data = append(data, 0x01, 0x02, 0x03) // too-short length, never accepted
	data = append(data, lp("(A Part)")...)

	strs := strscan.ScanLengthPrefixed(data)
	if len(strs) != 2 {
		t.Fatalf("got %d strings, want 2: %+v", len(strs), strs)
	}
	if strs[0].Value != "Shuckin' The Corn" {
		t.Errorf("strs[0].Value = %q", strs[0].Value)
	}
	if strs[1].Value != "(A Part)" {
		t.Errorf("strs[1].Value = %q", strs[1].Value)
	}
	if strs[0].Offset >= strs[1].Offset {
		t.Errorf("strings must be in ascending offset order")
	}
}

func TestScanRejectsNonAlpha(t *testing.T) {
	data := lp("77") // no alphabetic byte: rejected
	strs := strscan.ScanLengthPrefixed(data)
	if len(strs) != 0 {
		t.Fatalf("got %d strings, want 0: %+v", len(strs), strs)
	}
}

func TestReadCString(t *testing.T) {
	data := append([]byte("Foggy Mountain Breakdown"), 0x00, 'x', 'x')
	got := strscan.ReadCString(data, 0, 200)
	if got != "Foggy Mountain Breakdown" {
		t.Fatalf("got %q", got)
	}
}

func TestReadCStringCap(t *testing.T) {
	data := []byte("no-null-terminator-here")
	got := strscan.ReadCString(data, 0, 5)
	if got != "no-nu" {
		t.Fatalf("got %q, want capped at 5 bytes", got)
	}
}

func TestReadCStringOutOfRange(t *testing.T) {
	data := []byte("abc")
	if got := strscan.ReadCString(data, 10, 200); got != "" {
		t.Fatalf("got %q, want empty string for out-of-range offset", got)
	}
}
