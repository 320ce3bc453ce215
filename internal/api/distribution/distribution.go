package distribution

import (
	"strings"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
)

type Input struct {
	MarketingOwner   *string    `json:"marketing_owner"`
	DistributionName *string    `json:"distribution_name"`
	Label            *string    `json:"label"`
	TerritoryCode    *string    `json:"territory_code"`
	TerritoryName    *string    `json:"territory_name"`
	ProductTitle     *string    `json:"product_title"`
	TrackTitle       *string    `json:"track_title"`
	ISRC             *string    `json:"isrc"`
	UPC              *string    `json:"upc"`
	CatalogNumber    *string    `json:"catalog_number"`
	RevenueType      *string    `json:"revenue_type"`
	Quantity         *int64     `json:"quantity"`
	RoyaltyAmount    *float64   `json:"royalty_amount"`
	LocalAmount      *float64   `json:"local_amount"`
	Currency         *string    `json:"currency"`
	ExchangeRate     *float64   `json:"exchange_rate"`
	PeriodStart      *crud.Date `json:"period_start"`
	PeriodEnd        *crud.Date `json:"period_end"`
	SaleDate         *crud.Date `json:"sale_date"`
}

func (in Input) Validate(create bool) error {
	return crud.Required("product_title", in.ProductTitle, create)
}

func upper(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(strings.TrimSpace(*s))
	return &v
}

func (in Input) ApplyTo(d *records.DistributionStatement) {
	crud.Set(&d.MarketingOwner, in.MarketingOwner)
	crud.Set(&d.DistributionName, in.DistributionName)
	crud.Set(&d.Label, in.Label)
	crud.Set(&d.TerritoryCode, upper(in.TerritoryCode))
	crud.Set(&d.TerritoryName, in.TerritoryName)
	crud.Set(&d.ProductTitle, in.ProductTitle)
	crud.Set(&d.TrackTitle, in.TrackTitle)
	crud.Set(&d.ISRC, upper(in.ISRC))
	crud.Set(&d.UPC, in.UPC)
	crud.Set(&d.CatalogNumber, in.CatalogNumber)
	crud.Set(&d.RevenueType, in.RevenueType)
	crud.SetPtr(&d.Quantity, in.Quantity)
	crud.SetPtr(&d.RoyaltyAmount, in.RoyaltyAmount)
	crud.SetPtr(&d.LocalAmount, in.LocalAmount)
	crud.Set(&d.Currency, upper(in.Currency))
	crud.SetPtr(&d.ExchangeRate, in.ExchangeRate)
	crud.SetDate(&d.PeriodStart, in.PeriodStart)
	crud.SetDate(&d.PeriodEnd, in.PeriodEnd)
	crud.SetDate(&d.SaleDate, in.SaleDate)
}

var Columns = table.Base(
	table.TextCol("marketing_owner"),
	table.TextCol("distribution_name"),
	table.TextCol("label"),
	table.TextCol("territory_code"),
	table.TextCol("territory_name"),
	table.TextCol("product_title"),
	table.TextCol("track_title"),
	table.TextCol("isrc"),
	table.TextCol("upc"),
	table.TextCol("catalog_number"),
	table.TextCol("revenue_type"),
	table.NumberCol("quantity"),
	table.NumberCol("royalty_amount"),
	table.NumberCol("local_amount"),
	table.TextCol("currency"),
	table.NumberCol("exchange_rate"),
	table.DateCol("period_start"),
	table.DateCol("period_end"),
	table.DateCol("sale_date"),
)

var exportHeader = []string{
	"id", "marketing_owner", "distribution_name", "label", "territory_code", "territory_name",
	"product_title", "track_title", "isrc", "upc", "catalog_number", "revenue_type", "quantity",
	"royalty_amount", "local_amount", "currency", "exchange_rate", "period_start", "period_end", "sale_date",
}

func exportRow(d *records.DistributionStatement) []string {
	return []string{
		d.ID, d.MarketingOwner, d.DistributionName, d.Label, d.TerritoryCode, d.TerritoryName,
		d.ProductTitle, d.TrackTitle, d.ISRC, d.UPC, d.CatalogNumber, d.RevenueType, table.FmtInt(d.Quantity),
		table.FmtFloat(d.RoyaltyAmount), table.FmtFloat(d.LocalAmount), d.Currency, table.FmtFloat(d.ExchangeRate),
		table.FmtDate(d.PeriodStart), table.FmtDate(d.PeriodEnd), table.FmtDate(d.SaleDate),
	}
}

// Headers follow the usual distributor statement exports.
var aliases = importer.NewAliases(map[string][]string{
	"marketing_owner":   {"marketing owner", "propietario marketing"},
	"distribution_name": {"distributor", "distribuidor", "distribuidora", "store", "tienda", "dsp", "platform", "plataforma", "retailer"},
	"label":             {"sello", "label name", "discografica"},
	"territory_code":    {"country code", "codigo pais", "territory", "country", "pais"},
	"territory_name":    {"country name", "nombre pais", "territorio"},
	"product_title":     {"product", "producto", "release title", "album title", "titulo del producto", "release"},
	"track_title":       {"track", "titulo de la pista", "song title", "cancion", "tema"},
	"isrc":              {"isrc code", "codigo isrc"},
	"upc":               {"ean", "upc/ean", "barcode", "codigo de barras"},
	"catalog_number":    {"catalog", "catalogue number", "cat no", "cat#", "numero de catalogo"},
	"revenue_type":      {"sale type", "tipo de venta", "transaction type", "usage type", "tipo de ingreso"},
	"quantity":          {"units", "unidades", "cantidad", "streams", "qty"},
	"royalty_amount":    {"royalty", "royalties", "net revenue", "revenue", "importe", "ingresos", "amount", "regalias"},
	"local_amount":      {"gross revenue local", "importe local", "local revenue"},
	"currency":          {"moneda", "divisa", "currency code"},
	"exchange_rate":     {"tipo de cambio", "fx rate", "rate"},
	"period_start":      {"start date", "inicio periodo", "periodo desde", "reporting period start"},
	"period_end":        {"end date", "fin periodo", "periodo hasta", "reporting period end"},
	"sale_date":         {"fecha de venta", "transaction date", "date", "fecha"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		MarketingOwner:   crud.CSVString(r, "marketing_owner"),
		DistributionName: crud.CSVString(r, "distribution_name"),
		Label:            crud.CSVString(r, "label"),
		TerritoryCode:    crud.CSVString(r, "territory_code"),
		TerritoryName:    crud.CSVString(r, "territory_name"),
		ProductTitle:     crud.CSVString(r, "product_title"),
		TrackTitle:       crud.CSVString(r, "track_title"),
		ISRC:             crud.CSVString(r, "isrc"),
		UPC:              crud.CSVString(r, "upc"),
		CatalogNumber:    crud.CSVString(r, "catalog_number"),
		RevenueType:      crud.CSVString(r, "revenue_type"),
		Quantity:         crud.CSVInt(r, "quantity"),
		RoyaltyAmount:    crud.CSVFloat(r, "royalty_amount"),
		LocalAmount:      crud.CSVFloat(r, "local_amount"),
		Currency:         crud.CSVString(r, "currency"),
		ExchangeRate:     crud.CSVFloat(r, "exchange_rate"),
		PeriodStart:      crud.CSVDate(r, "period_start"),
		PeriodEnd:        crud.CSVDate(r, "period_end"),
		SaleDate:         crud.CSVDate(r, "sale_date"),
	}
}

// Statements are not indexed for search; they are numerous and have no
// useful title of their own.
func New() *crud.Resource[records.DistributionStatement, *records.DistributionStatement, Input] {
	return &crud.Resource[records.DistributionStatement, *records.DistributionStatement, Input]{
		Name:         "distribution",
		Columns:      Columns,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
	}
}
