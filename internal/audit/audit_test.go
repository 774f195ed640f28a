package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hamed0406/uptime/internal/domain"
)

func TestFileSink_AppendWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer s.Close()

	at := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	recs := []Record{
		{CheckID: "c1", ResponseCode: 200, State: domain.StateUp, At: at},
		{CheckID: "c1", Error: "timeout", State: domain.StateDown, Alerted: true, At: at.Add(time.Minute)},
	}
	for _, r := range recs {
		if err := s.Append("c1", r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "c1.log"))
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer f.Close()

	var got []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line not JSON: %v (%s)", err, sc.Text())
		}
		got = append(got, r)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 lines, got %d", len(got))
	}
	if got[0].ResponseCode != 200 || got[0].State != domain.StateUp {
		t.Fatalf("first record wrong: %+v", got[0])
	}
	if got[1].Error != "timeout" || !got[1].Alerted {
		t.Fatalf("second record wrong: %+v", got[1])
	}
}

func TestFileSink_List(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer s.Close()

	for _, stream := range []string{"a", "b"} {
		if err := s.Append(stream, Record{CheckID: stream, State: domain.StateDown, At: time.Now()}); err != nil {
			t.Fatalf("Append %s: %v", stream, err)
		}
	}
	// A rotated archive left by a previous run.
	if err := os.WriteFile(filepath.Join(dir, "old.gz"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	names, err := s.List(false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("want 2 live streams, got %v", names)
	}

	names, err = s.List(true)
	if err != nil {
		t.Fatalf("List compressed: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("want 3 with archives, got %v", names)
	}
}

func TestFileSink_RejectsEmptyStream(t *testing.T) {
	s, err := NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer s.Close()
	if err := s.Append("", Record{}); err == nil {
		t.Fatalf("want error for empty stream name")
	}
}
