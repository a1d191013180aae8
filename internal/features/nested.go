package features

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type logisticsInfo struct {
	AccommodationCovered  string `mapstructure:"accommodation_covered"`
	TransportationCovered string `mapstructure:"transportation_covered"`
	FoodWeekends          string `mapstructure:"food_weekends"`
	FoodCovered           string `mapstructure:"food_covered"`
}

type specificsInfo struct {
	ExpectedWorkSchedule interface{} `mapstructure:"expected_work_schedule"`
	Computer             interface{} `mapstructure:"computer"`
}

type legalInfo struct {
	HealthInsuranceInfo string `mapstructure:"health_insurance_info"`
}

var (
	firstInteger = regexp.MustCompile(`\b\d+\b`)

	insuranceNegations = []string{
		"Not compulsory", "not compulsory",
		"Not mandatory", "not mandatory",
		"Not needed", "not needed", "not_needed",
	}
	insuranceKeywords = []string{"needed", "mandatory", "compulsory"}
)

// boolAsText keeps JSON booleans distinguishable from "1"/"0" strings.
func boolAsText(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() == reflect.Bool && to.Kind() == reflect.String {
		return strconv.FormatBool(data.(bool)), nil
	}
	return data, nil
}

// decodeNested fills out from a loosely typed sub-object. Fields that fail
// to decode stay at their zero value; the others are kept.
func decodeNested(in map[string]interface{}, out interface{}) {
	if len(in) == 0 {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       boolAsText,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(in)
}

// NestedFeatures extracts the logistics, specifics and legal indicators.
func NestedFeatures(r Record) map[string]float64 {
	var logistics logisticsInfo
	decodeNested(r.Nested("logistics_info"), &logistics)

	var specifics specificsInfo
	decodeNested(r.Nested("specifics_info"), &specifics)

	var legal legalInfo
	decodeNested(r.Nested("legal_info"), &legal)

	return map[string]float64{
		"accommodation_covered":     boolToFloat(logistics.AccommodationCovered == "true"),
		"is_transportation_covered": TransportationCovered(logistics.TransportationCovered),
		"food_weekends":             boolToFloat(logistics.FoodWeekends == "true"),
		"num_meals":                 NumMeals(logistics.FoodCovered),
		"health_insurance_needed":   HealthInsuranceNeeded(legal.HealthInsuranceInfo),
		"expected_work_schedule":    boolToFloat(HasValue(specifics.ExpectedWorkSchedule)),
		"computer":                  boolToFloat(HasValue(specifics.Computer)),
	}
}

// TransportationCovered is 1 for "One way" or "Return trip".
func TransportationCovered(s string) float64 {
	t := strings.TrimSpace(s)
	return boolToFloat(t == "One way" || t == "Return trip")
}

// NumMeals returns the first integer in the food description.
func NumMeals(s string) float64 {
	if s == "" || s == "Not covered" || s == "0" {
		return 0
	}
	m := firstInteger.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return float64(n)
}

// HealthInsuranceNeeded neutralises negated phrases before looking for a
// requirement keyword.
func HealthInsuranceNeeded(s string) float64 {
	for _, phrase := range insuranceNegations {
		s = strings.ReplaceAll(s, phrase, "replaced_words")
	}
	for _, kw := range insuranceKeywords {
		if strings.Contains(s, kw) {
			return 1
		}
	}
	return 0
}
