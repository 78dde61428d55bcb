/*
DESCRIPTION
  debug_test.go provides testing for debug.go.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"io"
	"testing"
)

// memWriteSeeker is a minimal in-memory io.WriteSeeker for testing WAV
// encoding without touching the filesystem.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = int(offset)
	case io.SeekCurrent:
		m.pos += int(offset)
	case io.SeekEnd:
		m.pos = len(m.buf) + int(offset)
	}
	return int64(m.pos), nil
}

func TestDumpWAVWritesRiffHeader(t *testing.T) {
	ws := &memWriteSeeker{}
	samples := [][]int32{{1, -1}, {2, -2}}
	if err := DumpWAV(ws, samples, 2, 48000, 16); err != nil {
		t.Fatalf("DumpWAV: %v", err)
	}
	if len(ws.buf) < 4 {
		t.Fatalf("got %d encoded bytes, want at least 4", len(ws.buf))
	}
	if string(ws.buf[:4]) != "RIFF" {
		t.Fatalf("got header %q, want RIFF prefix", ws.buf[:4])
	}
}

func TestDumpWAVRejectsChannelMismatch(t *testing.T) {
	ws := &memWriteSeeker{}
	samples := [][]int32{{1, 2, 3}}
	if err := DumpWAV(ws, samples, 2, 48000, 16); err == nil {
		t.Fatal("expected error for frame with wrong channel count")
	}
}
