package features

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRecord(t *testing.T, raw string) Record {
	t.Helper()
	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	return r
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.42, Round(5.0/12, 2))
	assert.Equal(t, 2.0, Round(2.5, 0), "half to even")
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, 2.7, Round(2.675, 1))
	assert.Equal(t, 0.0, Round(math.NaN(), 1))
	assert.Equal(t, 0.0, Round(math.Inf(1), 1))
	assert.False(t, math.Signbit(Round(-0.01, 1)), "no negative zero")
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.5, SafeDivide(5, 2))
	assert.Equal(t, 0.0, SafeDivide(5, 0))
	assert.Equal(t, 0.0, SafeDivide(0, 0))
	assert.Equal(t, 0.0, SafeDivide(math.MaxFloat64, 1e-300))
}

func TestRecord_Number(t *testing.T) {
	r := decodeRecord(t, `{
		"duration_min": 60,
		"salary": " 450.5 ",
		"project_fee_cents": "lots",
		"openings": null
	}`)
	assert.Equal(t, 60.0, r.Number("duration_min"))
	assert.Equal(t, 450.5, r.Number("salary"))
	assert.Equal(t, 0.0, r.Number("project_fee_cents"))
	assert.Equal(t, 1.0, r.Number("openings"), "openings defaults to one")

	r = Record{"duration_min": true, "salary": math.NaN()}
	assert.Equal(t, 0.0, r.Number("duration_min"))
	assert.Equal(t, 0.0, r.Number("salary"))
}

func TestRecord_TextAndPresence(t *testing.T) {
	r := decodeRecord(t, `{
		"title": "Teach English",
		"description": 42,
		"cover_picture_link": "https://cdn/x.png",
		"profile_picture_link": "NaN"
	}`)
	assert.Equal(t, "Teach English", r.Text("title"))
	assert.Equal(t, "", r.Text("description"))
	assert.Equal(t, "", r.Text("missing"))
	assert.Equal(t, 1.0, r.Presence("cover_picture_link"))
	assert.Equal(t, 0.0, r.Presence("profile_picture_link"))
}

func TestRecord_ProgrammeID(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want string
	}{
		{1.0, "1"},
		{"1", "1"},
		{" 5 ", "5"},
		{2, "2"},
		{math.NaN(), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Record{"programme_id": tt.raw}.ProgrammeID(), "%v", tt.raw)
	}
	assert.Equal(t, "0", Record{}.ProgrammeID())
}

func TestExtract(t *testing.T) {
	r := Record{"openings": "4", "title": "x", "has": 1}
	assert.Equal(t, 4.0, Extract(r, "openings"))
	assert.Equal(t, "x", Extract(r, "title"))
	assert.Equal(t, 0.0, Extract(r, "cover_picture_link"))
	assert.Nil(t, Extract(r, "logistics_info").(map[string]interface{}))
	assert.Nil(t, Extract(r, "has"))
	assert.Contains(t, Fields(), "latest_end_date")
}

func TestRecord_Nested(t *testing.T) {
	obj := map[string]interface{}{"food_covered": "3"}
	assert.Equal(t, obj, Record{"logistics_info": obj}.Nested("logistics_info"))
	assert.Equal(t, obj, Record{"logistics_info": []interface{}{obj}}.Nested("logistics_info"))
	assert.Nil(t, Record{"logistics_info": []interface{}{}}.Nested("logistics_info"))
	assert.Nil(t, Record{"logistics_info": "{}"}.Nested("logistics_info"))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{
		"2019-06-01",
		"2019-06-01T23:59:59Z",
		"2019-06-01T10:00:00",
		"2019-06-01 10:00:00",
		"2019-06-01T01:00:00+05:00",
		"2019/06/01",
	} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, "2019-06-01", d.Format("2006-01-02"), s)
	}

	for _, s := range []string{"", "NaN", "NaT", "June 1st", "2019-13-01"} {
		_, ok := ParseDate(s)
		assert.False(t, ok, s)
	}
}

func TestSafeDateDiff(t *testing.T) {
	assert.Equal(t, 151.0, SafeDateDiff("2019-06-01", "2019-01-01"))
	assert.Equal(t, -151.0, SafeDateDiff("2019-01-01", "2019-06-01"))
	assert.Equal(t, 1.0, SafeDateDiff("2019-01-02T00:00:01Z", "2019-01-01T23:59:59Z"), "calendar days")
	assert.Equal(t, 0.0, SafeDateDiff("2019-06-01", ""))
	assert.Equal(t, 0.0, SafeDateDiff("garbage", "2019-06-01"))
	assert.Equal(t, 366.0, SafeDateDiff("2021-01-01", "2020-01-01"))
}

func TestTimeframeRigidity(t *testing.T) {
	assert.Equal(t, 1.5, TimeframeRigidity(90, 60))
	assert.Equal(t, 0.3, TimeframeRigidity(20, 60))
	assert.Equal(t, 0.0, TimeframeRigidity(90, 0))
	assert.Equal(t, 0.0, TimeframeRigidity(0, 60))
}

func TestYearCompletionRatio(t *testing.T) {
	assert.Equal(t, 0.42, YearCompletionRatio("2019-06-01"))
	assert.Equal(t, 0.0, YearCompletionRatio("2019-01-15"))
	assert.Equal(t, 0.92, YearCompletionRatio("2019-12-31T00:00:00Z"))
	assert.Equal(t, 0.0, YearCompletionRatio("2019-13-01"))
	assert.Equal(t, 0.0, YearCompletionRatio("2019"))
	assert.Equal(t, 0.0, YearCompletionRatio(""))
}

func TestTextLengthAndTokens(t *testing.T) {
	assert.Equal(t, 5.0, TextLength("école"))
	assert.Equal(t, 0.0, TextLength(""))
	assert.Equal(t, 3.0, CountTokens("English, French,Spanish"))
	assert.Equal(t, 1.0, CountTokens("English"))
	assert.Equal(t, 0.0, CountTokens("   "))
	assert.Equal(t, 2.0, CountTokens("a,"))
}

func TestRegionIndicators(t *testing.T) {
	tests := map[string]string{
		"Americas":               "is_americas",
		"Asia Pacific":           "is_asia_pacific",
		"Europe":                 "is_europe",
		"Middle East and Africa": "is_middle_east_africa",
	}
	for region, feature := range tests {
		got := RegionIndicators(region)
		require.Len(t, got, 4)
		var sum float64
		for _, v := range got {
			sum += v
		}
		assert.Equal(t, 1.0, sum, region)
		assert.Equal(t, 1.0, got[feature], region)
	}

	for _, region := range []string{"", "Africa", "europe", "West Europe"} {
		for name, v := range RegionIndicators(region) {
			assert.Zero(t, v, "%s/%s", region, name)
		}
	}
}

func TestProgrammeIndicators(t *testing.T) {
	assert.Equal(t, map[string]float64{
		"is_global_volunteer":    1,
		"is_global_talent":       0,
		"is_global_entrepreneur": 0,
	}, ProgrammeIndicators("1"))
	assert.Equal(t, 1.0, ProgrammeIndicators("5")["is_global_entrepreneur"])
	for _, v := range ProgrammeIndicators("3") {
		assert.Zero(t, v)
	}
}

func TestNestedFeatures(t *testing.T) {
	r := decodeRecord(t, `{
		"logistics_info": {
			"accommodation_covered": "true",
			"transportation_covered": "Return trip",
			"food_weekends": true,
			"food_covered": "2 meals a day"
		},
		"specifics_info": [{"expected_work_schedule": {"from": "9", "to": "5"}, "computer": ""}],
		"legal_info": {"health_insurance_info": "Health insurance is mandatory"}
	}`)
	assert.Equal(t, map[string]float64{
		"accommodation_covered":     1,
		"is_transportation_covered": 1,
		"food_weekends":             1,
		"num_meals":                 2,
		"health_insurance_needed":   1,
		"expected_work_schedule":    1,
		"computer":                  0,
	}, NestedFeatures(r))
}

func TestNestedFeatures_Tolerant(t *testing.T) {
	r := decodeRecord(t, `{
		"logistics_info": {"accommodation_covered": ["odd"], "transportation_covered": "One way"},
		"specifics_info": "not an object",
		"legal_info": null
	}`)
	got := NestedFeatures(r)
	assert.Equal(t, 0.0, got["accommodation_covered"])
	assert.Equal(t, 1.0, got["is_transportation_covered"], "other fields survive a bad one")
	assert.Equal(t, 0.0, got["expected_work_schedule"])
	assert.Equal(t, 0.0, got["health_insurance_needed"])
	assert.Len(t, NestedFeatures(Record{}), 7)
}

func TestNumMeals(t *testing.T) {
	assert.Equal(t, 3.0, NumMeals("3"))
	assert.Equal(t, 2.0, NumMeals("Breakfast and lunch, 2 per day"))
	assert.Equal(t, 0.0, NumMeals("Not covered"))
	assert.Equal(t, 0.0, NumMeals("some meals"))
	assert.Equal(t, 0.0, NumMeals(""))
}

func TestHealthInsuranceNeeded(t *testing.T) {
	assert.Equal(t, 1.0, HealthInsuranceNeeded("Insurance is needed"))
	assert.Equal(t, 1.0, HealthInsuranceNeeded("compulsory"))
	assert.Equal(t, 0.0, HealthInsuranceNeeded("Not compulsory"))
	assert.Equal(t, 0.0, HealthInsuranceNeeded("It is not needed"))
	assert.Equal(t, 0.0, HealthInsuranceNeeded("not_needed"))
	assert.Equal(t, 1.0, HealthInsuranceNeeded("Not mandatory for locals, needed for others"))
	assert.Equal(t, 0.0, HealthInsuranceNeeded(""))
}

func TestTransportationCovered(t *testing.T) {
	assert.Equal(t, 1.0, TransportationCovered("One way"))
	assert.Equal(t, 1.0, TransportationCovered(" Return trip "))
	assert.Equal(t, 0.0, TransportationCovered("Not covered"))
}
