package testutil

import "github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"

// Common industry slugs used across tests.
const (
	SlugConstruction         = "construction"
	SlugRealEstate           = "real-estate"
	SlugProfessionalServices = "professional-services"
	SlugHospitality          = "hospitality"
	SlugAgriculture          = "agriculture"
	SlugMining               = "mining"
)

// BasicIndustries is the minimal active set, including the fallback vertical.
func BasicIndustries() []model.Industry {
	return []model.Industry{
		{Slug: SlugConstruction, Name: "Construction", Tagline: "Builders, trades and contractors", IconName: "hammer", IsActive: true},
		{Slug: SlugRealEstate, Name: "Real Estate", Tagline: "Agencies and property managers", IconName: "home", IsActive: true},
		{Slug: SlugProfessionalServices, Name: "Professional Services", Tagline: "Accountants, lawyers and consultants", IconName: "briefcase", IsActive: true},
	}
}

// ExtendedIndustries adds more active verticals and one inactive vertical.
func ExtendedIndustries() []model.Industry {
	return append(BasicIndustries(),
		model.Industry{Slug: SlugHospitality, Name: "Hospitality", Tagline: "Cafes, restaurants and accommodation", IconName: "coffee", IsActive: true},
		model.Industry{Slug: SlugAgriculture, Name: "Agriculture", Tagline: "Farms and agribusiness", IconName: "wheat", IsActive: true},
		model.Industry{Slug: SlugMining, Name: "Mining", Tagline: "Resources and mining services", IconName: "pickaxe", IsActive: false},
	)
}
