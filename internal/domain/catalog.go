package domain

// Product is a single catalog entry. The portal only ever counts products
// for display; the full product payload is passed through to the generation
// service untouched.
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	SKU   string `json:"sku,omitempty"`
}

// Catalog is a product catalog assigned to the buyer's company. Catalogs are
// read-only: fetched as a set and replaced wholesale on reload.
type Catalog struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	SeasonYear string    `json:"seasonYear,omitempty"`
	Products   []Product `json:"products"`
}

// ProductCount returns the number of products for display.
func (c Catalog) ProductCount() int {
	return len(c.Products)
}

// BusinessData is the normalized result of a B2B data load: the merged
// company plus the catalogs assigned to it. Catalogs is never nil.
type BusinessData struct {
	Company  Company   `json:"company"`
	Catalogs []Catalog `json:"catalogs"`
}

// CatalogIDs returns the ids of all loaded catalogs in order.
func (d *BusinessData) CatalogIDs() []string {
	ids := make([]string, 0, len(d.Catalogs))
	for _, c := range d.Catalogs {
		ids = append(ids, c.ID)
	}
	return ids
}
