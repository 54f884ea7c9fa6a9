package models

import (
	"strings"
	"time"
)

type LeadStatus string

const (
	StatusNew         LeadStatus = "New"
	StatusContacted   LeadStatus = "Contacted"
	StatusNegotiating LeadStatus = "Negotiating"
	StatusWon         LeadStatus = "Won"
	StatusLost        LeadStatus = "Lost"
)

// LeadStatuses lists every status in declaration order. The cyclic
// "advance" shortcut walks this slice.
var LeadStatuses = []LeadStatus{StatusNew, StatusContacted, StatusNegotiating, StatusWon, StatusLost}

// ParseLeadStatus matches s case-insensitively against the known statuses.
func ParseLeadStatus(s string) (LeadStatus, bool) {
	for _, st := range LeadStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// Next returns the status after s, wrapping from Lost back to New.
func (s LeadStatus) Next() LeadStatus {
	for i, st := range LeadStatuses {
		if st == s {
			return LeadStatuses[(i+1)%len(LeadStatuses)]
		}
	}
	return StatusNew
}

// Lead sources, business sizes, job sources and job types as the provider
// is asked to spell them.
const (
	SourceGoogleMaps  = "Google Maps"
	SourceYelp        = "Yelp"
	SourceLinkedIn    = "LinkedIn"
	SourceInstagram   = "Instagram"
	SourceFacebook    = "Facebook"
	SourceYellowPages = "Yellow Pages"
	SourceDirect      = "Direct"

	SizeBoutique   = "Boutique"
	SizeGrowth     = "Growth"
	SizeEnterprise = "Enterprise"

	JobSourceLinkedIn   = "LinkedIn"
	JobSourceIndeed     = "Indeed"
	JobSourceUpwork     = "Upwork"
	JobSourceFreelancer = "Freelancer"
	JobSourceOther      = "Other"

	JobTypeFreelance = "Freelance"
	JobTypeContract  = "Contract"
	JobTypeFullTime  = "Full-time"
)

var (
	LeadSources   = []string{SourceGoogleMaps, SourceYelp, SourceLinkedIn, SourceInstagram, SourceFacebook, SourceYellowPages, SourceDirect}
	BusinessSizes = []string{SizeBoutique, SizeGrowth, SizeEnterprise}
	JobSources    = []string{JobSourceLinkedIn, JobSourceIndeed, JobSourceUpwork, JobSourceFreelancer, JobSourceOther}
	JobTypes      = []string{JobTypeFreelance, JobTypeContract, JobTypeFullTime}
)

// Needs flags the digital-presence gaps found for a business. true means
// the gap is present.
type Needs struct {
	Website       bool `json:"website"`
	SEO           bool `json:"seo"`
	SocialMedia   bool `json:"socialMedia"`
	GraphicDesign bool `json:"graphicDesign"`
	GMBIssues     bool `json:"gmbIssues"`
}

// Count returns the number of gaps present (0-5).
func (n Needs) Count() int {
	c := 0
	for _, v := range []bool{n.Website, n.SEO, n.SocialMedia, n.GraphicDesign, n.GMBIssues} {
		if v {
			c++
		}
	}
	return c
}

type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Yelp      string `json:"yelp,omitempty"`
}

// BusinessOpportunity is a prospect returned by the provider. Empty
// optional strings mean "unknown".
type BusinessOpportunity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`

	Phone       string       `json:"phone,omitempty"`
	Email       string       `json:"email,omitempty"`
	Website     string       `json:"website,omitempty"`
	OwnerName   string       `json:"ownerName,omitempty"`
	OwnerPhone  string       `json:"ownerPhone,omitempty"`
	GMBLink     string       `json:"gmbLink,omitempty"`
	LeadSource  string       `json:"leadSource"`
	SocialLinks *SocialLinks `json:"socialLinks,omitempty"`

	CurrencySymbol   string  `json:"currencySymbol"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	PotentialValue   float64 `json:"potentialValue"`
	BusinessSize     string  `json:"businessSize"`

	Needs                 Needs  `json:"needs"`
	Analysis              string `json:"analysis"`
	ServiceRecommendation string `json:"serviceRecommendation"`
}

type JobListing struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Company         string `json:"company"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	Source          string `json:"source"`
	SourceURL       string `json:"sourceUrl" validate:"required,httpurl"`
	PostedDate      string `json:"postedDate"`
	EstimatedBudget string `json:"estimatedBudget,omitempty"`
	Type            string `json:"type"`
}

// CRMLead is a copy of an opportunity committed to the pipeline.
type CRMLead struct {
	BusinessOpportunity
	Status     LeadStatus `json:"status"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"createdAt"`
	DealAmount float64    `json:"dealAmount"`
}

type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Gap intensity and lead quality filter values.
const (
	IntensityHigh   = "High"
	IntensityMedium = "Medium"
	IntensityLow    = "Low"

	TierA = "A-Tier"
	TierB = "B-Tier"
	TierC = "C-Tier"
)

// FilterState is transient and never persisted. Zero values disable a clause;
// any other value must be one of the known ones.
type FilterState struct {
	MinRevenue   float64    `json:"minRevenue" form:"minRevenue" binding:"gte=0"`
	GapIntensity string     `json:"gapIntensity" form:"gapIntensity" binding:"omitempty,oneof=High Medium Low"`
	LeadQuality  string     `json:"leadQuality" form:"leadQuality" binding:"omitempty,oneof=A-Tier B-Tier"`
	Location     string     `json:"location" form:"location"`
	LeadStatus   LeadStatus `json:"leadStatus" form:"status" binding:"omitempty,oneof=New Contacted Negotiating Won Lost"`
	BusinessSize string     `json:"businessSize" form:"businessSize" binding:"omitempty,oneof=Boutique Growth Enterprise"`
}

// StoredCollection is one durable key holding a JSON-serialized collection.
type StoredCollection struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
