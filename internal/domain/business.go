package domain

// Business is a single directory listing. JSON names match the persisted layout.
type Business struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	OwnerName   string   `json:"ownerName"`
	Category    string   `json:"category"`
	City        string   `json:"city"`
	Address     string   `json:"address,omitempty"`
	Phone       string   `json:"phone"`
	Description string   `json:"description,omitempty"`
	Verified    bool     `json:"verified"`
	Rating      *float64 `json:"rating,omitempty"` // one fractional digit
	Reviews     []Review `json:"reviews"`
	CreatedAt   string   `json:"createdAt"` // ISO-8601, immutable
}

// NewBusiness holds the caller-supplied attributes of a listing.
type NewBusiness struct {
	Name        string `json:"name" validate:"required"`
	OwnerName   string `json:"ownerName"`
	Category    string `json:"category" validate:"required"`
	City        string `json:"city" validate:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone" validate:"required"`
	Description string `json:"description"`
}

// Clone returns a copy that shares no mutable state with b.
func (b Business) Clone() Business {
	out := b
	if b.Rating != nil {
		r := *b.Rating
		out.Rating = &r
	}
	if b.Reviews != nil {
		out.Reviews = make([]Review, len(b.Reviews))
		copy(out.Reviews, b.Reviews)
	}
	return out
}
