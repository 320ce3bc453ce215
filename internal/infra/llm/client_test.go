package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestParseContractFields(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		title   string
		wantErr bool
	}{
		{name: "plain json", in: `{"title":"Deal","artists":["A","B"]}`, title: "Deal"},
		{name: "fenced", in: "```json\n{\"title\":\"Fenced\"}\n```", title: "Fenced"},
		{name: "prose around", in: "Sure! Here it is: {\"title\":\"Wrapped\"} hope it helps", title: "Wrapped"},
		{name: "garbage", in: "no json here", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContractFields(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != tt.title {
				t.Errorf("title = %q, want %q", got.Title, tt.title)
			}
		})
	}
}

func TestExtractContract(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Licencia\",\"artists\":[\"Rosa\"],\"status\":\"active\",\"start_date\":\"2024-01-01\"}"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1/", "sk-test", "test-model", 0, 5*time.Second)
	fields, err := c.ExtractContract(context.Background(), "deal.pdf", "CONTRATO DE LICENCIA ...")
	if err != nil {
		t.Fatalf("ExtractContract: %v", err)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody.Model != "test-model" || gotBody.ResponseFormat["type"] != "json_object" {
		t.Errorf("unexpected request body %+v", gotBody)
	}
	if fields.Title != "Licencia" || len(fields.Artists) != 1 || fields.StartDate != "2024-01-01" {
		t.Errorf("unexpected fields %+v", fields)
	}
}

func TestCompleteFallsBackWithoutJSONMode(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body chatRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.ResponseFormat != nil {
			http.Error(w, `{"error":"response_format unsupported"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "k", "m", 0, time.Second)
	out, err := c.Complete(context.Background(), "sys", "user", true)
	if err != nil || out != "ok" {
		t.Fatalf("Complete = %q, %v", out, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	c := New("http://unused", "", "m", 1, time.Second)
	if _, err := c.Complete(context.Background(), "s", "u", true); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestClipKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"año", 2, "a"},
		{"año", 3, "añ"},
		{"ñ", 1, ""},
	}
	for _, tt := range tests {
		if got := clip(tt.in, tt.n); got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}

	long := strings.Repeat("é", maxPromptChars)
	if got := clip(long, maxPromptChars+1); !utf8.ValidString(got) || len(got) != maxPromptChars {
		t.Fatalf("clip produced %d bytes, valid=%v", len(got), utf8.ValidString(got))
	}
}
