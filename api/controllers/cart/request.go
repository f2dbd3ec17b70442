package cart

// AddItemRequest carries the product snapshot captured at add time.
type AddItemRequest struct {
	ID          int     `json:"id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageURL    string  `json:"image_url"`
}

// SetQuantityRequest sets an absolute quantity; zero or less removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetPhoneRequest stores the contact phone as typed; validation happens at
// checkout, not here.
type SetPhoneRequest struct {
	Phone string `json:"phone"`
}
