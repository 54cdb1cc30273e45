package plans

const (
	CodeStarter = "starter"
	CodePro     = "pro"
	CodeStudio  = "studio"
)

const (
	FeatureImage = "image"
	FeatureVideo = "video"
)

// Limits holds per-feature daily quotas for a plan. A limit of 0 means the
// feature is not available on that plan.
type Limits struct {
	ImagesPerDay int `json:"images_per_day"`
	VideosPerDay int `json:"videos_per_day"`
}

type Plan struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	PriceMinor int64  `json:"price_minor"`
	Currency   string `json:"currency"`
	Paid       bool   `json:"paid"`
	Limits     Limits `json:"limits"`
}

var registry = []Plan{
	{Code: CodeStarter, Name: "Starter", PriceMinor: 0, Currency: "USD", Paid: false,
		Limits: Limits{ImagesPerDay: 5, VideosPerDay: 0}},
	{Code: CodePro, Name: "Pro", PriceMinor: 1900, Currency: "USD", Paid: true,
		Limits: Limits{ImagesPerDay: 100, VideosPerDay: 10}},
	{Code: CodeStudio, Name: "Studio", PriceMinor: 4900, Currency: "USD", Paid: true,
		Limits: Limits{ImagesPerDay: 500, VideosPerDay: 50}},
}

// Lookup returns the plan for code, falling back to the starter plan when the
// code is unknown so a bad subscription row never grants unlimited access.
func Lookup(code string) Plan {
	for _, p := range registry {
		if p.Code == code {
			return p
		}
	}
	return registry[0]
}

func All() []Plan {
	out := make([]Plan, len(registry))
	copy(out, registry)
	return out
}

// For returns the daily limit for a feature, with ok=false for features the
// registry does not know about.
func (l Limits) For(feature string) (int, bool) {
	switch feature {
	case FeatureImage:
		return l.ImagesPerDay, true
	case FeatureVideo:
		return l.VideosPerDay, true
	default:
		return 0, false
	}
}
