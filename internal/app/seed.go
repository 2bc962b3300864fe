package app

import "service_directory/internal/domain"

func pfloat(f float64) *float64 { return &f }

// SeedBusinesses returns the built-in sample set tagged with domain.SchemaVersion.
// Update SchemaVersion whenever this set changes.
func SeedBusinesses() []domain.Business {
	return []domain.Business{
		{
			ID:          1,
			Name:        "QuickFix Plumbing Services",
			OwnerName:   "Rajesh Kumar",
			Category:    "Plumbing",
			City:        "Mumbai",
			Address:     "Shop 12, Andheri West, Mumbai, Maharashtra",
			Phone:       "+91 98765 43210",
			Description: "Professional plumbing services available 24/7. Licensed and insured with over 15 years of experience serving Mumbai.",
			Verified:    true,
			Rating:      pfloat(4.8),
			Reviews: []domain.Review{
				{UserName: "Priya Sharma", Rating: 5, Comment: "Excellent service! Fixed our leak quickly.", CreatedAt: "2024-01-10"},
				{UserName: "Amit Patel", Rating: 4, Comment: "Professional and affordable.", CreatedAt: "2024-01-08"},
			},
			CreatedAt: "2024-01-15",
		},
		{
			ID:          2,
			Name:        "Dr. Priya Health Clinic",
			OwnerName:   "Dr. Priya Mehta",
			Category:    "Healthcare",
			City:        "Delhi",
			Address:     "Green Park, New Delhi",
			Phone:       "+91 98765 43211",
			Description: "Family medicine and preventive care. Accepting new patients. MBBS, MD with 10+ years experience.",
			Verified:    true,
			Rating:      pfloat(4.9),
			Reviews: []domain.Review{
				{UserName: "Sneha Reddy", Rating: 5, Comment: "Dr. Priya is amazing! Very caring and thorough.", CreatedAt: "2024-01-12"},
			},
			CreatedAt: "2024-01-14",
		},
		{
			ID:          3,
			Name:        "Brilliant Minds Tutoring",
			OwnerName:   "Vikram Singh",
			Category:    "Education",
			City:        "Bangalore",
			Address:     "Koramangala, Bangalore, Karnataka",
			Phone:       "+91 98765 43212",
			Description: "Expert tutoring for all subjects, from Class 1 to IIT-JEE preparation. Experienced faculty.",
			Verified:    true,
			Rating:      pfloat(4.7),
			Reviews:     []domain.Review{},
			CreatedAt:   "2024-01-13",
		},
		{
			ID:          4,
			Name:        "Home Renovation Experts",
			OwnerName:   "Suresh Iyer",
			Category:    "Home Repair",
			City:        "Chennai",
			Address:     "T Nagar, Chennai, Tamil Nadu",
			Phone:       "+91 98765 43213",
			Description: "Complete home renovation and interior design services. Quality work guaranteed.",
			Verified:    false,
			Rating:      pfloat(4.5),
			Reviews:     []domain.Review{},
			CreatedAt:   "2024-01-12",
		},
		{
			ID:          5,
			Name:        "City Auto Care",
			OwnerName:   "Anil Kapoor",
			Category:    "Auto Services",
			City:        "Pune",
			Address:     "Kothrud, Pune, Maharashtra",
			Phone:       "+91 98765 43214",
			Description: "Full-service auto repair and maintenance for all car brands. Certified mechanics.",
			Verified:    false,
			Rating:      pfloat(4.6),
			Reviews:     []domain.Review{},
			CreatedAt:   "2024-01-11",
		},
	}
}
