package distribution

import (
	"strings"
	"testing"

	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
)

func TestFromCSVStatement(t *testing.T) {
	sheet, err := importer.Parse([]byte(
		"Product;Track;ISRC;Country;Currency;Units;Royalty;Sale Date\n"+
			"Luz;Luz (Intro);es-abc-24-00001; es ;eur;1,234;1.234,56;31/01/2024\n"+
			"Sombra;;;;;7;12,5;\n"+
			"Mala;;;;;1.5;3;\n"+
			";;;;;1;1;\n"), aliases)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sheet.Unmapped) != 0 {
		t.Fatalf("unmapped headers: %v", sheet.Unmapped)
	}

	tests := []struct {
		name      string
		row       int
		wantErr   string
		royalty   float64
		quantity  int64
		territory string
	}{
		{name: "decimal comma with thousands dot", row: 0, royalty: 1234.56, quantity: 1234, territory: "ES"},
		{name: "bare decimal comma", row: 1, royalty: 12.5, quantity: 7},
		{name: "fractional units", row: 2, wantErr: "quantity"},
		{name: "missing product", row: 3, wantErr: "product_title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := sheet.Rows[tt.row]
			in := fromCSV(row)
			err := row.Err()
			if err == nil {
				err = in.Validate(true)
			}
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want mention of %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var d records.DistributionStatement
			in.ApplyTo(&d)
			if d.RoyaltyAmount == nil || *d.RoyaltyAmount != tt.royalty {
				t.Errorf("royalty = %v, want %v", d.RoyaltyAmount, tt.royalty)
			}
			if d.Quantity == nil || *d.Quantity != tt.quantity {
				t.Errorf("quantity = %v, want %v", d.Quantity, tt.quantity)
			}
			if d.TerritoryCode != tt.territory {
				t.Errorf("territory = %q, want %q", d.TerritoryCode, tt.territory)
			}
		})
	}
}

func TestApplyToUppercasesCodes(t *testing.T) {
	sheet, err := importer.Parse([]byte("product,isrc,currency,sale_date\nLuz,es-abc-24-00001,eur,2024-01-31\n"), aliases)
	if err != nil {
		t.Fatal(err)
	}
	var d records.DistributionStatement
	fromCSV(sheet.Rows[0]).ApplyTo(&d)
	if d.ISRC != "ES-ABC-24-00001" || d.Currency != "EUR" {
		t.Errorf("codes = %q %q", d.ISRC, d.Currency)
	}
	if d.SaleDate == nil || d.SaleDate.Format("2006-01-02") != "2024-01-31" {
		t.Errorf("sale date = %v", d.SaleDate)
	}
}
