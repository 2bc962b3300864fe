package domain

// CategoryAll is the search sentinel that disables the category filter.
const CategoryAll = "All"

// Cities is the autocomplete list offered on the home and search screens.
var Cities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata", "Hyderabad",
	"Pune", "Ahmedabad", "Jaipur", "Surat", "Lucknow", "Kanpur",
	"Nagpur", "Indore", "Thane", "Bhopal", "Visakhapatnam", "Patna",
}

// ServiceCategories drive search suggestions and the category filter.
var ServiceCategories = []string{
	"Plumbing", "Healthcare", "Education", "Home Repair", "Auto Services",
	"Electrical", "Painting", "Cleaning", "Carpentry", "Beauty & Spa",
}

// ListingCategories are offered when a new listing is submitted.
var ListingCategories = []string{
	"Plumbing", "Healthcare", "Education", "Home Repair", "Auto Services",
	"Electrical", "Cleaning", "Legal", "Financial", "Other",
}

// FeaturedCategories are counted on the home screen.
var FeaturedCategories = []string{
	"Plumbing", "Healthcare", "Education", "Home Repair", "Auto Services",
}
