package app

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"service_directory/internal/domain"
)

// Featured returns up to n verified businesses in collection order.
func Featured(businesses []domain.Business, n int) []domain.Business {
	verified := lo.Filter(businesses, func(b domain.Business, _ int) bool { return b.Verified })
	if len(verified) > n {
		verified = verified[:n]
	}
	return verified
}

// RecentReviews flattens every review with its business and returns the n newest.
func RecentReviews(businesses []domain.Business, n int) []domain.RecentReview {
	all := lo.FlatMap(businesses, func(b domain.Business, _ int) []domain.RecentReview {
		return lo.Map(b.Reviews, func(r domain.Review, _ int) domain.RecentReview {
			return domain.RecentReview{Review: r, BusinessID: b.ID, BusinessName: b.Name}
		})
	})
	sort.SliceStable(all, func(i, j int) bool {
		return reviewTime(all[i].CreatedAt).After(reviewTime(all[j].CreatedAt))
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// reviewTime accepts full timestamps and the date-only form used by the seed.
// Unparseable values sort last.
func reviewTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func CategoryCounts(businesses []domain.Business, categories []string) []domain.CategoryCount {
	counts := lo.CountValuesBy(businesses, func(b domain.Business) string { return b.Category })
	return lo.Map(categories, func(c string, _ int) domain.CategoryCount {
		return domain.CategoryCount{Name: c, Count: counts[c]}
	})
}

func Stats(businesses []domain.Business) domain.DirectoryStats {
	verified := lo.CountBy(businesses, func(b domain.Business) bool { return b.Verified })
	return domain.DirectoryStats{
		Total:    len(businesses),
		Verified: verified,
		Pending:  len(businesses) - verified,
	}
}
