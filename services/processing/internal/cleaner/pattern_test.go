package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		keyword string
		text    string
		want    bool
	}{
		{keyword: "remote", text: "fully remote team", want: true},
		{keyword: "on_site", text: "on-site", want: true},
		{keyword: "on_site", text: "on site", want: true},
		{keyword: "on_site", text: "onsite", want: false},
		{keyword: "data%scientist", text: "sr data scientist", want: true},
		{keyword: "data%scientist", text: "data science scientist", want: true},
		{keyword: "data%scientist", text: "scientist, data", want: false},
		{keyword: "data%data", text: "data", want: false},
		{keyword: "data%data", text: "data/data", want: true},
		{keyword: "Power_BI", text: "Power BI dashboards", want: true},
		{keyword: "Power_BI", text: "PowerBI", want: false},
		{keyword: "naïve", text: "a naïve bayes", want: true},
		{keyword: "x", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.keyword+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, compilePattern(tt.keyword).match([]rune(tt.text)))
		})
	}
}

func TestCompileKeywordsRejectsMatchAll(t *testing.T) {
	_, err := compileKeywords([]string{"%"}, true)
	assert.Error(t, err)

	_, err = compileKeywords(nil, true)
	assert.Error(t, err)
}
