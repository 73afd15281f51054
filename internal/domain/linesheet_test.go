package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultFilename(t *testing.T) {
	tests := []struct {
		name    string
		company string
		output  OutputType
		want    string
	}{
		{"combined", "Acme", OutputCombined, "Acme_Linesheet.xlsx"},
		{"separate", "Acme", OutputSeparate, "Acme_Linesheets.xlsx"},
		{"whitespace collapsed", "Acme  Trading Co", OutputCombined, "Acme_Trading_Co_Linesheet.xlsx"},
		{"tabs and newlines", "Acme\tTrading\nCo", OutputCombined, "Acme_Trading_Co_Linesheet.xlsx"},
		{"diacritics folded", "Café Nómada", OutputCombined, "Cafe_Nomada_Linesheet.xlsx"},
		{"unsafe characters dropped", `Acme "West/East"`, OutputCombined, "Acme_WestEast_Linesheet.xlsx"},
		{"leading and trailing space", "  Acme  ", OutputSeparate, "Acme_Linesheets.xlsx"},
		{"empty name falls back", "", OutputCombined, "Linesheet.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultFilename(tt.company, tt.output))
		})
	}
}

func TestOutputType_Valid(t *testing.T) {
	assert.True(t, OutputCombined.Valid())
	assert.True(t, OutputSeparate.Valid())
	assert.False(t, OutputType("").Valid())
	assert.False(t, OutputType("both").Valid())
}

func TestDeliveryOutcome_ContentType(t *testing.T) {
	assert.Equal(t, ContentTypeZip, DeliveryOutcome{IsArchive: true}.ContentType())
	assert.Equal(t, ContentTypeSpreadsheet, DeliveryOutcome{}.ContentType())
}

func TestCatalog_ProductCount(t *testing.T) {
	c := Catalog{Products: []Product{{ID: "p1"}, {ID: "p2"}}}
	assert.Equal(t, 2, c.ProductCount())
	assert.Equal(t, 0, Catalog{}.ProductCount())
}

func TestBusinessData_CatalogIDs(t *testing.T) {
	d := &BusinessData{Catalogs: []Catalog{{ID: "C1"}, {ID: "C2"}}}
	assert.Equal(t, []string{"C1", "C2"}, d.CatalogIDs())
	assert.Empty(t, (&BusinessData{}).CatalogIDs())
}
