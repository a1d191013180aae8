package features

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"matchability/internal/reference"
)

// Regions recognised by the region indicators, in feature order.
var regionFeatures = []struct {
	Region  string
	Feature string
}{
	{"Americas", "is_americas"},
	{"Asia Pacific", "is_asia_pacific"},
	{"Europe", "is_europe"},
	{"Middle East and Africa", "is_middle_east_africa"},
}

// Programme ids recognised by the programme indicators, in feature order.
var programmeFeatures = []struct {
	ID      string
	Feature string
}{
	{"1", "is_global_volunteer"},
	{"2", "is_global_talent"},
	{"5", "is_global_entrepreneur"},
}

// TimeframeRigidity is max duration over minimum duration, one decimal.
// A zero minimum duration yields 0.
func TimeframeRigidity(experienceMaxDuration, durationMin float64) float64 {
	return Round(SafeDivide(experienceMaxDuration, durationMin), 1)
}

// YearCompletionRatio reads the month of an ISO-like date and returns
// round((month-1)/12, 2), or 0 when no month can be read.
func YearCompletionRatio(earliestStart string) float64 {
	parts := strings.Split(earliestStart, "-")
	if len(parts) < 2 {
		return 0
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || month < 1 || month > 12 {
		return 0
	}
	return Round(float64(month-1)/12, 2)
}

// TextLength counts characters, not bytes.
func TextLength(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

// CountTokens counts comma-separated entries. Blank input counts as 0.
func CountTokens(s string) float64 {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return float64(len(strings.Split(s, ",")))
}

// RegionIndicators sets exactly one flag for a recognised region and
// none otherwise. Matching is exact.
func RegionIndicators(region string) map[string]float64 {
	out := make(map[string]float64, len(regionFeatures))
	for _, rf := range regionFeatures {
		out[rf.Feature] = boolToFloat(region == rf.Region)
	}
	return out
}

// ProgrammeIndicators sets exactly one flag for a recognised programme id.
func ProgrammeIndicators(programmeID string) map[string]float64 {
	out := make(map[string]float64, len(programmeFeatures))
	for _, pf := range programmeFeatures {
		out[pf.Feature] = boolToFloat(programmeID == pf.ID)
	}
	return out
}

// HDI resolves an entity name to its development index.
func HDI(table *reference.HDITable, entity string) float64 {
	return table.ForEntity(entity)
}

// SkillsText joins the background and skill fields the way the cluster
// vectorizer saw them during training.
func SkillsText(r Record) string {
	return strings.Join([]string{
		r.Text("opp_background_req"),
		r.Text("opp_background_pref"),
		r.Text("opp_skill_req"),
		r.Text("opp_skill_pref"),
	}, ", ")
}
