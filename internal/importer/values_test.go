package importer

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05", day(2024, 3, 5)},
		{"2024/3/5", day(2024, 3, 5)},
		{"05/03/2024", day(2024, 3, 5)},
		{"5-3-2024", day(2024, 3, 5)},
		{"05.03.2024", day(2024, 3, 5)},
		{"Mar 5, 2024", day(2024, 3, 5)},
		{"5 March 2024", day(2024, 3, 5)},
		{"5 de marzo de 2024", day(2024, 3, 5)},
		{"5-ene-2024", day(2024, 1, 5)},
		{"2024-03-05T22:10:00Z", day(2024, 3, 5)},
		{"2024-03-05 10:00:00", day(2024, 3, 5)},
		{"45356", day(2024, 3, 5)},
		{"2024", day(2024, 1, 1)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", tt.in, err)
			continue
		}
		if got == nil || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got, err := ParseDate("  "); got != nil || err != nil {
		t.Errorf("ParseDate(blank) = %v, %v; want nil, nil", got, err)
	}
	for _, bad := range []string{"soon", "31/31/2024", "12"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1234.56", 1234.56},
		{"1.234,56", 1234.56},
		{"1,234.56", 1234.56},
		{"12,5", 12.5},
		{"0,912", 0.912},
		{"1,234", 1234},
		{"1.234.567", 1234567},
		{"€ 1 234,50", 1234.5},
		{"$-12.00", -12},
		{"(12.50)", -12.5},
		{"15%", 15},
	}
	for _, tt := range tests {
		got, err := ParseNumber(tt.in)
		if err != nil {
			t.Errorf("ParseNumber(%q) error: %v", tt.in, err)
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got, err := ParseNumber(""); got != nil || err != nil {
		t.Errorf("ParseNumber(blank) = %v, %v", got, err)
	}
	if _, err := ParseNumber("abc"); err == nil {
		t.Error("ParseNumber(abc) should fail")
	}
	if _, err := ParseInt("2,5"); err == nil {
		t.Error("ParseInt(2,5) should fail")
	}
	if n, err := ParseInt("1.200.000"); err != nil || *n != 1200000 {
		t.Errorf("ParseInt(1.200.000) = %v, %v", n, err)
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"si", "Sí", "YES", "y", "x", "true", "1", "✓"} {
		if !ParseBool(v) {
			t.Errorf("ParseBool(%q) = false", v)
		}
	}
	for _, v := range []string{"", "no", "0", "false", "maybe"} {
		if ParseBool(v) {
			t.Errorf("ParseBool(%q) = true", v)
		}
	}
}

func TestEnums(t *testing.T) {
	tests := []struct {
		name string
		enum Enum
		in   string
		want string
	}{
		{"vigente", ContractStatus, "VIGENTE", "active"},
		{"finalizado", ContractStatus, "Finalizado", "finished"},
		{"unknown status", ContractStatus, "en disputa", "unspecified"},
		{"blank status", ContractStatus, "", "unspecified"},
		{"si accent", Expansion, "SÍ", "yes"},
		{"sencillo", ReleaseType, "Sencillo", "single"},
		{"album accent", ReleaseType, "Álbum", "album"},
		{"task spaced", TaskStatus, "In Progress", "in_progress"},
		{"task blank", TaskStatus, "", "todo"},
		{"priority", TaskPriority, "Alta", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.enum.Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := TaskStatus.Parse("whenever"); err == nil {
		t.Error("unknown task status should be rejected")
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("Rosa, Luna & Sol feat. Mar; rosa / Feather")
	want := []string{"Rosa", "Luna", "Sol", "Mar", "Feather"}
	if len(got) != len(want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SplitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
