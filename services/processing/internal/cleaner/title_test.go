package cleaner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "senior spelled out", title: "  Senior Data Scientist ", want: "sr data scientist"},
		{name: "parenthesised sr", title: "Data Scientist (Sr.)", want: "data scientist sr"},
		{name: "sr with period", title: "Sr. Data Engineer", want: "sr data engineer"},
		{name: "jr with period", title: "Jr. Analyst", want: "jr analyst"},
		{name: "junior spelled out", title: "JUNIOR Data Analyst", want: "jr data analyst"},
		{name: "every occurrence", title: "Senior/Junior Senior", want: "sr/jr sr"},
		{name: "senior followed by period", title: "Scientist, Senior.", want: "scientist, sr"},
		{name: "already normalized", title: "sr jr", want: "sr jr"},
		{name: "empty", title: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.title))
		})
	}
}

func TestNormalizeTitleProperties(t *testing.T) {
	titles := []string{
		"Senior Data Scientist",
		"(Sr.) ML Engineer (SR.)",
		"Jr. jr. JR. junior",
		"Director, Senior. Analytics",
		"Sr.. Data (Sr.). Analyst",
		"Seniorsenior",
		"Data Scientist",
	}

	for _, title := range titles {
		got := NormalizeTitle(title)

		assert.Equal(t, strings.ToLower(got), got, "lowercase: %q", title)
		for _, raw := range []string{"senior", "junior", "sr.", "(sr.)", "jr."} {
			assert.NotContains(t, got, raw, "title %q", title)
		}
		assert.Equal(t, got, NormalizeTitle(got), "fixed point: %q", title)
	}
}
