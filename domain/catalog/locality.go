package catalog

// RateKey identifies an entry in the delivery-rate table.
type RateKey string

const (
	RateCairo    RateKey = "cairo"
	RateGiza     RateKey = "giza"
	RateOctober  RateKey = "october"
	RateHaram    RateKey = "haram"
	RateRehab    RateKey = "rehab"
	RateMadinaty RateKey = "madinaty"
	RateIsmailia RateKey = "ismailia"
	RateAlex     RateKey = "alex"
	RateTanta    RateKey = "tanta"
	RateMansoura RateKey = "mansoura"
	RateOthers   RateKey = "others"
)

var rateKeys = []RateKey{
	RateCairo, RateGiza, RateOctober, RateHaram, RateRehab, RateMadinaty,
	RateIsmailia, RateAlex, RateTanta, RateMansoura, RateOthers,
}

// DefaultCity is the locality preselected by the checkout form.
const DefaultCity = "القاهرة"

// OtherCity is the checkout option for governorates outside the table.
const OtherCity = "أخرى"

// Locality is a named delivery destination offered at checkout.
type Locality struct {
	Name string  `json:"name"`
	Key  RateKey `json:"key"`
}

// Localities lists the checkout options in display order.
var Localities = []Locality{
	{Name: "القاهرة", Key: RateCairo},
	{Name: "الجيزة", Key: RateGiza},
	{Name: "6 أكتوبر", Key: RateOctober},
	{Name: "الهرم", Key: RateHaram},
	{Name: "مدينة الرحاب", Key: RateRehab},
	{Name: "مدينتي", Key: RateMadinaty},
	{Name: "الإسماعيلية", Key: RateIsmailia},
	{Name: "الإسكندرية", Key: RateAlex},
	{Name: "طنطا", Key: RateTanta},
	{Name: "المنصورة", Key: RateMansoura},
	{Name: OtherCity, Key: RateOthers},
}

// RateKeyForCity maps a city name to its rate key by exact match.
// Any unmatched name maps to RateOthers.
func RateKeyForCity(city string) RateKey {
	for _, l := range Localities {
		if l.Name == city {
			return l.Key
		}
	}
	return RateOthers
}

// DeliveryFee returns the fee for the given city name.
func (r DeliveryRates) DeliveryFee(city string) float64 {
	return r.Rate(RateKeyForCity(city))
}
