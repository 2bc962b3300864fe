package domain

type Review struct {
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type NewReview struct {
	UserName string `json:"user_name" validate:"required"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"required"`
}

// RecentReview is a review flattened together with the listing it belongs to.
type RecentReview struct {
	Review
	BusinessID   int64  `json:"businessId"`
	BusinessName string `json:"businessName"`
}
