package importer

import (
	"errors"
	"strings"
	"testing"
)

var testAliases = NewAliases(map[string][]string{
	"title":      {"titulo", "nombre"},
	"start_date": {"fecha de inicio", "inicio"},
	"status":     {"estado"},
	"amount":     {"importe"},
})

func TestParseSheet(t *testing.T) {
	data := "\xEF\xBB\xBFTítulo;Fecha de Inicio;Estado;Importe;Comentario\n" +
		"Licencia Rosa;05/03/2024;VIGENTE;1.234,56;x\n" +
		";;;;\n" +
		"Sin fecha;mañana;Finalizado;abc;\n"

	sheet, err := Parse([]byte(data), testAliases)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(sheet.Rows))
	}
	if len(sheet.Unmapped) != 1 || sheet.Unmapped[0] != "Comentario" {
		t.Errorf("unmapped = %v", sheet.Unmapped)
	}

	first := sheet.Rows[0]
	if first.Line != 2 {
		t.Errorf("first line = %d", first.Line)
	}
	if first.Require("title") != "Licencia Rosa" {
		t.Errorf("title = %q", first.String("title"))
	}
	if d := first.Date("start_date"); d == nil || d.Format("2006-01-02") != "2024-03-05" {
		t.Errorf("start_date = %v", d)
	}
	if first.Enum("status", ContractStatus) != "active" {
		t.Errorf("status = %q", first.String("status"))
	}
	if f := first.Float("amount"); f == nil || *f != 1234.56 {
		t.Errorf("amount = %v", f)
	}
	if err := first.Err(); err != nil {
		t.Errorf("first row error: %v", err)
	}

	second := sheet.Rows[1]
	if second.Line != 4 {
		t.Errorf("second line = %d, want 4", second.Line)
	}
	second.Date("start_date")
	second.Float("amount")
	err = second.Err()
	if err == nil {
		t.Fatal("expected row errors")
	}
	if !strings.Contains(err.Error(), "start_date") || !strings.Contains(err.Error(), "amount") {
		t.Errorf("row error = %v", err)
	}
}

func TestParseSheetErrors(t *testing.T) {
	if _, err := Parse([]byte("  \n"), testAliases); !errors.Is(err, ErrEmpty) {
		t.Errorf("blank file err = %v", err)
	}
	if _, err := Parse([]byte("foo,bar\n1,2\n"), testAliases); !errors.Is(err, ErrNoColumns) {
		t.Errorf("unknown columns err = %v", err)
	}
	if _, err := Parse([]byte("titulo\n"), testAliases); !errors.Is(err, ErrEmpty) {
		t.Errorf("header only err = %v", err)
	}
}

func TestRequire(t *testing.T) {
	sheet, err := Parse([]byte("title,status\n,active\n"), testAliases)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	row := sheet.Rows[0]
	row.Require("title")
	if row.Err() == nil || !strings.Contains(row.Err().Error(), "title is required") {
		t.Errorf("Err = %v", row.Err())
	}
}
