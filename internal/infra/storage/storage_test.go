package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"Contrato Peña (final).pdf": "Contrato_Pena_final_.pdf",
		"../../etc/passwd":          "passwd",
		`C:\docs\deal.pdf`:          "deal.pdf",
		"   ":                       "file",
		"ok-name_1.csv":             "ok-name_1.csv",
	}
	for in, want := range tests {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildKey(t *testing.T) {
	key := BuildKey("team-4/", "Deal Memo.pdf")
	if !strings.HasPrefix(key, "team-4/") {
		t.Fatalf("key %q lost its prefix", key)
	}
	if !strings.HasSuffix(key, "/Deal_Memo.pdf") {
		t.Fatalf("key %q lost its file name", key)
	}
	if parts := strings.Split(key, "/"); len(parts) != 3 || len(parts[1]) != 36 {
		t.Fatalf("unexpected key layout %q", key)
	}
}

func TestMinioPresignIsOffline(t *testing.T) {
	m, err := NewMinio("localhost:9000", "access", "secretsecret", "documents", "us-east-1", false)
	if err != nil {
		t.Fatalf("NewMinio: %v", err)
	}

	u, err := m.PresignPut(context.Background(), "user-1/abc/file.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignPut: %v", err)
	}
	if !strings.Contains(u.Path, "/documents/user-1/abc/file.pdf") {
		t.Errorf("unexpected path %q", u.Path)
	}
	if u.Query().Get("X-Amz-Signature") == "" {
		t.Error("missing signature")
	}
	if u.Query().Get("X-Amz-Expires") != "900" {
		t.Errorf("expires = %q", u.Query().Get("X-Amz-Expires"))
	}

	g, err := m.PresignGet(context.Background(), "user-1/abc/file.pdf", "file.pdf", time.Minute)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	if !strings.Contains(g.Query().Get("response-content-disposition"), "file.pdf") {
		t.Errorf("missing disposition in %s", g.String())
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Stat(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Stat(missing) err = %v", err)
	}

	m.Put("k", "application/pdf", []byte("hello"))
	info, err := m.Stat(ctx, "k")
	if err != nil || info.Size != 5 || info.ContentType != "application/pdf" {
		t.Fatalf("Stat = %+v, %v", info, err)
	}
	if _, err := m.Read(ctx, "k", 2); err == nil {
		t.Fatal("expected size limit error")
	}
	data, err := m.Read(ctx, "k", 10)
	if err != nil || string(data) != "hello" {
		t.Fatalf("Read = %q, %v", data, err)
	}
}
