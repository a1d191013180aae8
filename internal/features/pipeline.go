package features

import (
	"fmt"

	"matchability/internal/reference"
)

// BaseFeatures lists the non-cluster features in export order.
var BaseFeatures = []string{
	"openings",
	"duration_min",
	"application_open_window",
	"experience_max_duration",
	"created_vs_earliest_start",
	"created_vs_latest_end",
	"experience_timeframe_rigidness",
	"title_len",
	"description_len",
	"num_languages",
	"salary",
	"project_fee_cents",
	"num_skills",
	"num_backgrounds",
	"has_cover_pic",
	"has_profile_pic",
	"computer",
	"expected_work_schedule",
	"accommodation_covered",
	"food_weekends",
	"health_insurance_needed",
	"is_transportation_covered",
	"num_meals",
	"is_americas",
	"is_asia_pacific",
	"is_europe",
	"is_middle_east_africa",
	"hdi",
	"year_completion_ratio",
	"is_global_volunteer",
	"is_global_talent",
	"is_global_entrepreneur",
}

// ClusterClassifier assigns skills text to one of a fixed set of clusters.
type ClusterClassifier interface {
	// Classify returns one indicator per cluster with exactly one set.
	Classify(text string) []float64
	// Names returns the positional indicator names, cl1..clK.
	Names() []string
	// Labels returns the training-time label of each cluster.
	Labels() []string
}

// Pipeline computes the full feature set for a record. It holds only
// read-only reference data and is safe for concurrent use.
type Pipeline struct {
	hdi      *reference.HDITable
	clusters ClusterClassifier
}

func NewPipeline(hdi *reference.HDITable, clusters ClusterClassifier) (*Pipeline, error) {
	if hdi == nil {
		return nil, fmt.Errorf("hdi table is required")
	}
	if clusters == nil {
		return nil, fmt.Errorf("cluster classifier is required")
	}
	if len(clusters.Names()) != len(clusters.Labels()) {
		return nil, fmt.Errorf("cluster classifier has %d names but %d labels",
			len(clusters.Names()), len(clusters.Labels()))
	}
	for _, label := range clusters.Labels() {
		if contains(BaseFeatures, label) {
			return nil, fmt.Errorf("cluster label %q collides with a base feature", label)
		}
	}
	return &Pipeline{hdi: hdi, clusters: clusters}, nil
}

// FeatureNames lists every name Compute produces: the base features, the
// positional cluster names and the cluster labels.
func (p *Pipeline) FeatureNames() []string {
	names := make([]string, 0, len(BaseFeatures)+2*len(p.clusters.Names()))
	names = append(names, BaseFeatures...)
	names = append(names, p.clusters.Names()...)
	for _, label := range p.clusters.Labels() {
		if !contains(names, label) {
			names = append(names, label)
		}
	}
	return names
}

// ExportNames lists the base features followed by the cluster labels,
// which is the column layout of the training table.
func (p *Pipeline) ExportNames() []string {
	names := make([]string, 0, len(BaseFeatures)+len(p.clusters.Labels()))
	names = append(names, BaseFeatures...)
	return append(names, p.clusters.Labels()...)
}

// Compute never fails on malformed input; every field falls back to its
// documented default.
func (p *Pipeline) Compute(r Record) Computed {
	if r == nil {
		r = Record{}
	}
	c := make(Computed, len(BaseFeatures)+20)

	durationMin := r.Number("duration_min")
	createdAt := r.Text("created_at")
	closeDate := r.Text("application_close_date")
	earliestStart := r.Text("earliest_start_date")
	latestEnd := r.Text("latest_end_date")

	c["openings"] = r.Number("openings")
	c["duration_min"] = durationMin
	c["salary"] = r.Number("salary")
	c["project_fee_cents"] = r.Number("project_fee_cents")

	c["application_open_window"] = SafeDateDiff(closeDate, createdAt)
	c["experience_max_duration"] = SafeDateDiff(latestEnd, earliestStart)
	c["created_vs_earliest_start"] = SafeDateDiff(earliestStart, createdAt)
	c["created_vs_latest_end"] = SafeDateDiff(latestEnd, createdAt)
	c["experience_timeframe_rigidness"] = TimeframeRigidity(c["experience_max_duration"], durationMin)
	c["year_completion_ratio"] = YearCompletionRatio(earliestStart)

	c["title_len"] = TextLength(r.Text("title"))
	c["description_len"] = TextLength(r.Text("description"))
	c["num_languages"] = CountTokens(r.Text("opp_language_req"))
	c["num_skills"] = CountTokens(r.Text("opp_skill_req"))
	c["num_backgrounds"] = CountTokens(r.Text("opp_background_req"))

	c["has_cover_pic"] = r.Presence("cover_picture_link")
	c["has_profile_pic"] = r.Presence("profile_picture_link")

	for k, v := range NestedFeatures(r) {
		c[k] = v
	}
	for k, v := range RegionIndicators(r.Text("name_region")) {
		c[k] = v
	}
	for k, v := range ProgrammeIndicators(r.ProgrammeID()) {
		c[k] = v
	}
	c["hdi"] = HDI(p.hdi, r.Text("name_entity"))

	indicators := p.clusters.Classify(SkillsText(r))
	names := p.clusters.Names()
	labels := p.clusters.Labels()
	for i, v := range indicators {
		c[names[i]] = v
		c[labels[i]] = v
	}
	return c
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
