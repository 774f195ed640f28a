package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCheck_JSONRoundTrip(t *testing.T) {
	at := time.Date(2026, 8, 18, 12, 0, 0, 0, time.UTC)
	want := Check{
		ID:             "aaaaaaaaaabbbbbbbbbb",
		UserPhone:      "5551234567",
		Protocol:       "https",
		URL:            "example.com",
		Method:         "get",
		SuccessCodes:   []int{200, 201},
		TimeoutSeconds: 3,
		State:          StateUp,
		LastChecked:    &at,
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Check
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != want.ID || got.UserPhone != want.UserPhone ||
		got.Protocol != want.Protocol || got.Method != want.Method ||
		got.TimeoutSeconds != want.TimeoutSeconds || got.State != want.State {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
	if got.LastChecked == nil || !got.LastChecked.Equal(at) {
		t.Fatalf("lastChecked lost: %v", got.LastChecked)
	}
	if len(got.SuccessCodes) != 2 || got.SuccessCodes[0] != 200 {
		t.Fatalf("successCodes lost: %v", got.SuccessCodes)
	}
}

func TestCheck_LastCheckedOmittedWhenNever(t *testing.T) {
	b, err := json.Marshal(Check{ID: "aaaaaaaaaabbbbbbbbbb"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["lastChecked"]; ok {
		t.Fatalf("lastChecked should be absent before the first probe, got %v", m["lastChecked"])
	}
}

func TestValidateSpec(t *testing.T) {
	valid := func() CheckSpec {
		return CheckSpec{
			Protocol:       "https",
			URL:            "example.com",
			Method:         "get",
			SuccessCodes:   []int{200},
			TimeoutSeconds: 3,
		}
	}

	cases := []struct {
		name   string
		mutate func(*CheckSpec)
		ok     bool
	}{
		{"valid", func(s *CheckSpec) {}, true},
		{"trims fields", func(s *CheckSpec) { s.URL = "  example.com  "; s.Method = " get " }, true},
		{"bad protocol", func(s *CheckSpec) { s.Protocol = "ftp" }, false},
		{"empty url", func(s *CheckSpec) { s.URL = "   " }, false},
		{"bad method", func(s *CheckSpec) { s.Method = "patch" }, false},
		{"uppercase method rejected", func(s *CheckSpec) { s.Method = "GET" }, false},
		{"empty success codes", func(s *CheckSpec) { s.SuccessCodes = nil }, false},
		{"timeout too low", func(s *CheckSpec) { s.TimeoutSeconds = 0 }, false},
		{"timeout too high", func(s *CheckSpec) { s.TimeoutSeconds = 6 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := valid()
			tc.mutate(&spec)
			err := ValidateSpec(&spec)
			if tc.ok && err != nil {
				t.Fatalf("want ok, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("want error, got none")
			}
		})
	}
}

func TestNormalizeCheck(t *testing.T) {
	valid := func() Check {
		return Check{
			ID:             "aaaaaaaaaabbbbbbbbbb",
			UserPhone:      "5551234567",
			Protocol:       "http",
			URL:            "example.com",
			Method:         "post",
			SuccessCodes:   []int{200},
			TimeoutSeconds: 1,
		}
	}

	t.Run("defaults state and lastChecked", func(t *testing.T) {
		got, err := NormalizeCheck(valid())
		if err != nil {
			t.Fatalf("NormalizeCheck: %v", err)
		}
		if got.State != StateDown {
			t.Fatalf("want default state down, got %q", got.State)
		}
		if got.LastChecked != nil {
			t.Fatalf("want nil lastChecked, got %v", got.LastChecked)
		}
	})

	t.Run("keeps prior engine state", func(t *testing.T) {
		at := time.Now().UTC()
		c := valid()
		c.State = StateUp
		c.LastChecked = &at
		got, err := NormalizeCheck(c)
		if err != nil {
			t.Fatalf("NormalizeCheck: %v", err)
		}
		if got.State != StateUp || got.LastChecked == nil {
			t.Fatalf("prior state lost: %+v", got)
		}
	})

	t.Run("garbage state becomes down", func(t *testing.T) {
		c := valid()
		c.State = State("sideways")
		got, err := NormalizeCheck(c)
		if err != nil {
			t.Fatalf("NormalizeCheck: %v", err)
		}
		if got.State != StateDown {
			t.Fatalf("want down, got %q", got.State)
		}
	})

	rejects := []struct {
		name   string
		mutate func(*Check)
	}{
		{"short id", func(c *Check) { c.ID = "short" }},
		{"bad phone", func(c *Check) { c.UserPhone = "555123456x" }},
		{"bad protocol", func(c *Check) { c.Protocol = "gopher" }},
		{"empty url", func(c *Check) { c.URL = "" }},
		{"bad method", func(c *Check) { c.Method = "HEAD" }},
		{"no success codes", func(c *Check) { c.SuccessCodes = []int{} }},
		{"timeout out of range", func(c *Check) { c.TimeoutSeconds = 9 }},
	}
	for _, tc := range rejects {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			if _, err := NormalizeCheck(c); err == nil {
				t.Fatalf("want rejection, got none")
			}
		})
	}
}

func TestValidPhone(t *testing.T) {
	cases := map[string]bool{
		"5551234567":  true,
		"555123456":   false,
		"55512345678": false,
		"555123456a":  false,
		"":            false,
	}
	for in, want := range cases {
		if got := ValidPhone(in); got != want {
			t.Fatalf("ValidPhone(%q) = %v, want %v", in, got, want)
		}
	}
}
