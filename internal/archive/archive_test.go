package archive

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/grove-cli/grove/internal/branch"
	"github.com/grove-cli/grove/internal/session"
)

func testEnvelope(t *testing.T) Envelope {
	t.Helper()
	tree := branch.New("persona")
	tree.AppendUser("Hello")
	tree.AppendAssistant("Hi there!")
	if _, err := tree.Fork(); err != nil {
		t.Fatalf("Fork failed: %v", err)
	}
	tree.AppendUser("Topic A")

	return Envelope{
		Session: session.Session{
			ID:        "abc-123",
			Title:     "exported chat",
			Model:     "gpt-4o-mini",
			CreatedAt: time.Unix(1700000000, 0).UTC(),
			UpdatedAt: time.Unix(1700000100, 0).UTC(),
		},
		Tree: tree.State(),
	}
}

func TestRoundTrip(t *testing.T) {
	env := testEnvelope(t)

	var buf bytes.Buffer
	if err := Write(&buf, env); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Session.ID != env.Session.ID || got.Session.Title != env.Session.Title {
		t.Errorf("Session metadata mismatch: %+v", got.Session)
	}

	tree, err := branch.FromState(got.Tree)
	if err != nil {
		t.Fatalf("FromState failed: %v", err)
	}
	if tree.Current() != "main1" {
		t.Errorf("Expected current main1, got %s", tree.Current())
	}
	if n, _ := tree.Len("main1"); n != 4 {
		t.Errorf("Expected 4 messages on main1, got %d", n)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	data := append([]byte("NOPE"), make([]byte, 64)...)
	if _, err := Read(bytes.NewReader(data)); err == nil || !strings.Contains(err.Error(), "magic") {
		t.Errorf("Expected bad magic error, got %v", err)
	}
}

func TestReadRejectsCorruptPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testEnvelope(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Flip a bit in the stored digest so verification must fail.
	data := buf.Bytes()
	data[8] ^= 0xff

	if _, err := Read(bytes.NewReader(data)); err == nil || !strings.Contains(err.Error(), "digest") {
		t.Errorf("Expected digest mismatch, got %v", err)
	}
}

func TestReadRejectsTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testEnvelope(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := Read(bytes.NewReader(buf.Bytes()[:20])); err == nil {
		t.Error("Expected error for truncated archive")
	}
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testEnvelope(t)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data := buf.Bytes()
	data[7] = 99 // version byte

	if _, err := Read(bytes.NewReader(data)); err == nil || !strings.Contains(err.Error(), "version") {
		t.Errorf("Expected version error, got %v", err)
	}
}
