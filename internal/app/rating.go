package app

import (
	"github.com/shopspring/decimal"

	"service_directory/internal/domain"
)

// AggregateRating is the mean of every review rating rounded to one decimal,
// or nil when there are no reviews. It is always computed from the full list.
func AggregateRating(reviews []domain.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(reviews)))).Round(1)
	f, _ := avg.Float64()
	return &f
}
