package textcluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var terms = []string{
	"python", "java", "marketing", "sales", "teaching",
	"english", "finance", "design", "engineering", "management",
}

func testVectorizer(t *testing.T, mutate func(*VectorizerSpec)) *Vectorizer {
	t.Helper()
	spec := VectorizerSpec{
		Vocabulary: make(map[string]int, len(terms)),
		IDF:        make([]float64, len(terms)),
		Norm:       "l2",
	}
	for i, term := range terms {
		spec.Vocabulary[term] = i
		spec.IDF[i] = 1 + float64(i)/10
	}
	if mutate != nil {
		mutate(&spec)
	}
	v, err := NewVectorizer(spec)
	require.NoError(t, err)
	return v
}

// basisCentroids puts centroid k on the axis of term k.
func basisCentroids() [][]float64 {
	out := make([][]float64, ClusterCount)
	for k := range out {
		out[k] = make([]float64, len(terms))
		out[k][k] = 1
	}
	return out
}

func TestVectorizer_Tokens(t *testing.T) {
	v := testVectorizer(t, nil)

	assert.Equal(t, []string{"data", "science", "école", "c3"}, v.Tokens("Data-Science, C++ a ÉCOLE c3"))
	assert.Empty(t, v.Tokens(""))
	assert.Empty(t, v.Tokens(", , , "))
}

func TestVectorizer_SklearnDefaultPattern(t *testing.T) {
	for _, pattern := range []string{`(?u)\b\w\w+\b`, `\b\w\w+\b`} {
		t.Run(pattern, func(t *testing.T) {
			v := testVectorizer(t, func(s *VectorizerSpec) { s.TokenPattern = pattern })
			assert.Equal(t, []string{"économie", "python", "c3"}, v.Tokens("Économie, Python a c3"))
		})
	}
}

func TestTranslateTokenPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    string
		wantErr string
	}{
		{"empty", "", DefaultTokenPattern, ""},
		{"sklearn default", `(?u)\b\w\w+\b`, DefaultTokenPattern, ""},
		{"word run", `(?u)\w{3,}`, `[\p{L}\p{N}_]{3,}`, ""},
		{"word in class", `[\w-]+`, `[\p{L}\p{N}_-]+`, ""},
		{"non word", `\W+`, `[^\p{L}\p{N}_]+`, ""},
		{"plain", `[a-z]+`, `[a-z]+`, ""},
		{"escaped backslash", `\\w`, `\\w`, ""},
		{"boundary", `(?u)\b[a-z]+\b`, "", "word boundaries"},
		{"non boundary", `\Bx`, "", "word boundaries"},
		{"non word in class", `[\W]`, "", "character class"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := translateTokenPattern(tt.pattern)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVectorizer_CustomWordPattern(t *testing.T) {
	v := testVectorizer(t, func(s *VectorizerSpec) { s.TokenPattern = `(?u)\w{3,}` })
	assert.Equal(t, []string{"économie", "python"}, v.Tokens("Économie, Python ab"))

	_, err := NewVectorizer(VectorizerSpec{
		Vocabulary:   map[string]int{"a": 0},
		IDF:          []float64{1},
		TokenPattern: `(?u)\b[a-z]+\b`,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word boundaries")
}

func TestVectorizer_TransformL2(t *testing.T) {
	v := testVectorizer(t, nil)

	x := v.Transform("Python, java, python, unknown")
	require.Len(t, x, 2)
	assert.Equal(t, 0, x[0].Index)
	assert.Equal(t, 1, x[1].Index)

	raw0, raw1 := 2*1.0, 1*1.1
	n := math.Sqrt(raw0*raw0 + raw1*raw1)
	assert.InDelta(t, raw0/n, x[0].Value, 1e-12)
	assert.InDelta(t, raw1/n, x[1].Value, 1e-12)
}

func TestVectorizer_SublinearWithoutNorm(t *testing.T) {
	v := testVectorizer(t, func(s *VectorizerSpec) {
		s.SublinearTF = true
		s.Norm = ""
	})

	x := v.Transform("python python python")
	require.Len(t, x, 1)
	assert.InDelta(t, 1+math.Log(3), x[0].Value, 1e-12)
}

func TestVectorizer_Binary(t *testing.T) {
	v := testVectorizer(t, func(s *VectorizerSpec) {
		s.Binary = true
		s.Norm = "none"
	})

	x := v.Transform("sales sales sales")
	require.Len(t, x, 1)
	assert.InDelta(t, 1.3, x[0].Value, 1e-12)
}

func TestNewVectorizer_Invalid(t *testing.T) {
	tests := []struct {
		name string
		spec VectorizerSpec
	}{
		{"empty", VectorizerSpec{}},
		{"idf length", VectorizerSpec{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1, 2}}},
		{"index range", VectorizerSpec{Vocabulary: map[string]int{"a": 3}, IDF: []float64{1}}},
		{"duplicate index", VectorizerSpec{Vocabulary: map[string]int{"a": 0, "b": 0}, IDF: []float64{1, 1}}},
		{"norm", VectorizerSpec{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1}, Norm: "max"}},
		{"pattern", VectorizerSpec{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1}, TokenPattern: `(?<=x)`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVectorizer(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestClassifier_AssignsNearestCentroid(t *testing.T) {
	c, err := NewClassifier(testVectorizer(t, nil), ClustersSpec{Centroids: basisCentroids()})
	require.NoError(t, err)

	for k, term := range terms {
		assert.Equal(t, k, c.Assign("needs "+term), term)
	}
	assert.Equal(t, 8, c.Assign("Engineering, engineering, design"))
}

func TestClassifier_TotalOverAnyText(t *testing.T) {
	c, err := NewClassifier(testVectorizer(t, nil), ClustersSpec{Centroids: basisCentroids()})
	require.NoError(t, err)

	inputs := []string{"", ", , , ", "zzz unknown words", "python", "日本語 テキスト"}
	for _, in := range inputs {
		ind := c.Classify(in)
		require.Len(t, ind, ClusterCount)
		var sum float64
		for _, v := range ind {
			assert.True(t, v == 0 || v == 1)
			sum += v
		}
		assert.Equal(t, 1.0, sum, "input %q", in)
	}
	// every centroid is equidistant from the origin, so the tie goes to cl1
	assert.Equal(t, 0, c.Assign(""))
}

func TestClassifier_EmptyTextPicksSmallestCentroid(t *testing.T) {
	centroids := basisCentroids()
	centroids[6][6] = 0.2

	c, err := NewClassifier(testVectorizer(t, nil), ClustersSpec{Centroids: centroids})
	require.NoError(t, err)
	assert.Equal(t, 6, c.Assign(""))
}

func TestClassifier_NamesAndLabels(t *testing.T) {
	labels := []string{
		"cl1_python_data", "cl2_java_web", "cl3_marketing_social", "cl4_sales_business", "cl5_teaching_children",
		"cl6_english_teaching", "cl7_finance_accounting", "cl8_design_graphic", "cl9_engineering_civil", "cl10_management_project",
	}
	c, err := NewClassifier(testVectorizer(t, nil), ClustersSpec{Centroids: basisCentroids(), Labels: labels})
	require.NoError(t, err)

	assert.Equal(t, "cl1", c.Names()[0])
	assert.Equal(t, "cl10", c.Names()[9])
	assert.Equal(t, labels, c.Labels())

	plain, err := NewClassifier(testVectorizer(t, nil), ClustersSpec{Centroids: basisCentroids()})
	require.NoError(t, err)
	assert.Equal(t, plain.Names(), plain.Labels())
}

func TestNewClassifier_Invalid(t *testing.T) {
	vec := testVectorizer(t, nil)

	_, err := NewClassifier(nil, ClustersSpec{Centroids: basisCentroids()})
	assert.Error(t, err)

	_, err = NewClassifier(vec, ClustersSpec{Centroids: basisCentroids()[:9]})
	assert.Error(t, err)

	short := basisCentroids()
	short[3] = []float64{1}
	_, err = NewClassifier(vec, ClustersSpec{Centroids: short})
	assert.Error(t, err)

	bad := basisCentroids()
	bad[2][0] = math.NaN()
	_, err = NewClassifier(vec, ClustersSpec{Centroids: bad})
	assert.Error(t, err)

	_, err = NewClassifier(vec, ClustersSpec{Centroids: basisCentroids(), Labels: []string{"a"}})
	assert.Error(t, err)

	dup := []string{"a", "a", "c", "d", "e", "f", "g", "h", "i", "j"}
	_, err = NewClassifier(vec, ClustersSpec{Centroids: basisCentroids(), Labels: dup})
	assert.Error(t, err)

	shadow := []string{"cl2", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	_, err = NewClassifier(vec, ClustersSpec{Centroids: basisCentroids(), Labels: shadow})
	assert.Error(t, err)
}
