package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"user", RoleUser},
		{"ai", RoleAssistant},
		{"assistant", RoleAssistant},
		{"Bot", RoleAssistant},
		{"model", RoleAssistant},
		{"", RoleUser},
		{"system", RoleUser},
	}
	for _, tc := range tests {
		if got := ParseRole(tc.in); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMessage_TimestampPrecedence(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{"timestamp first", `{"timestamp":"2024-01-01T00:00:00Z","time":"2025-01-01T00:00:00Z"}`, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"time second", `{"time":"2025-01-01T00:00:00Z","created_at":"2026-01-01T00:00:00Z"}`, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"created_at last", `{"created_at":"2026-01-01T00:00:00Z"}`, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"python naive", `{"time":"2024-05-01T10:00:00.123456"}`, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)},
		{"unparseable", `{"time":"yesterday"}`, time.Time{}},
		{"missing", `{}`, time.Time{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var m Message
			if err := json.Unmarshal([]byte(tc.json), &m); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !m.Timestamp.Equal(tc.want) {
				t.Errorf("Timestamp = %v, want %v", m.Timestamp, tc.want)
			}
		})
	}
}

func TestChat_Normalization(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantID  string
		wantTag string
	}{
		{"chat_id and mode", `{"chat_id":"a","mode":"guide"}`, "a", "guide"},
		{"id fallback", `{"id":"b"}`, "b", ""},
		{"chat_id wins", `{"chat_id":"a","id":"b"}`, "a", ""},
		{"numeric id", `{"id":12}`, "12", ""},
		{"personality wins", `{"id":"c","personality":"bully","mode":"friend"}`, "c", "bully"},
		{"empty personality falls back", `{"id":"c","personality":"","mode":"friend"}`, "c", "friend"},
		{"null tag", `{"id":"c","personality":null}`, "c", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var c Chat
			if err := json.Unmarshal([]byte(tc.json), &c); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if c.ID != tc.wantID {
				t.Errorf("ID = %q, want %q", c.ID, tc.wantID)
			}
			if c.Personality != tc.wantTag {
				t.Errorf("Personality = %q, want %q", c.Personality, tc.wantTag)
			}
		})
	}
}
