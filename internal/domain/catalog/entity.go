// internal/domain/catalog/entity.go
package catalog

// Product is the catalog collaborator's product shape, declared only for
// the fields this system consumes.
type Product struct {
	ID                   int      `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Category             string   `json:"category"`
	Price                float64  `json:"price"`
	DiscountPercentage   float64  `json:"discountPercentage"`
	Rating               float64  `json:"rating"`
	Stock                int      `json:"stock"`
	Brand                string   `json:"brand"`
	SKU                  string   `json:"sku"`
	Weight               float64  `json:"weight"`
	WarrantyInformation  string   `json:"warrantyInformation"`
	ShippingInformation  string   `json:"shippingInformation"`
	AvailabilityStatus   string   `json:"availabilityStatus"`
	ReturnPolicy         string   `json:"returnPolicy"`
	MinimumOrderQuantity int      `json:"minimumOrderQuantity"`
	Reviews              []Review `json:"reviews,omitempty"`
	Images               []string `json:"images,omitempty"`
	Thumbnail            string   `json:"thumbnail"`
}

// Review is a customer review as delivered by the catalog
type Review struct {
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	Date          string `json:"date"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail"`
}

// Page is one page of catalog results with the collaborator's pagination
// envelope.
type Page struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Category is one entry of the catalog's category enumeration
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// IsInStock reads the fetched snapshot; it is a display affordance, not
// authoritative stock truth.
func (p *Product) IsInStock() bool {
	return p.Stock > 0 && p.AvailabilityStatus != "Out of Stock"
}

// DiscountedPrice returns the price after the catalog's discount
func (p *Product) DiscountedPrice() float64 {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.DiscountPercentage/100)
}
