package jd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmartin/resume-dash/internal/section"
)

func TestMissingKeywords_FlagsRecurringUncoveredTerms(t *testing.T) {
	jd := `We need Kubernetes expertise. Kubernetes powers our platform.
You will use Terraform daily. Terraform modules everywhere. Python helps too.`

	contents := []section.Content{
		{Bullets: []string{"Deployed services with Terraform and CI pipelines"}},
	}

	missing := MissingKeywords(jd, contents)
	assert.Contains(t, missing, "kubernetes")
	assert.NotContains(t, missing, "terraform") // covered by the resume
	assert.NotContains(t, missing, "python")    // mentioned only once
}

func TestMissingKeywords_OrderedByFrequency(t *testing.T) {
	jd := "redis redis redis kafka kafka postgres postgres"
	missing := MissingKeywords(jd, nil)
	assert.Equal(t, []string{"redis", "kafka", "postgres"}, missing)
}

func TestMissingKeywords_SkillsMapCounts(t *testing.T) {
	jd := "grpc grpc"
	contents := []section.Content{
		{Skills: map[string][]string{"Backend": {"gRPC", "REST"}}},
	}
	assert.Empty(t, MissingKeywords(jd, contents))
}

func TestMissingKeywords_StopwordsIgnored(t *testing.T) {
	jd := "the the the and and with with team team experience experience"
	assert.Empty(t, MissingKeywords(jd, nil))
}

func TestMissingKeywords_CapsList(t *testing.T) {
	var jd string
	for i := 0; i < 30; i++ {
		word := "keyword" + string(rune('a'+i))
		jd += word + " " + word + " "
	}
	missing := MissingKeywords(jd, nil)
	assert.Len(t, missing, maxKeywords)
}
