package biz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturescout/venturescout/internal/scout/biz"
)

func TestExtractionStagePartialResponseKeepsDefaults(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.respond("Extract structured information", `{
		"company_info": {"name": "Acme", "sector": "SaaS"},
		"metrics": {"mrr": 50000}
	}`)

	stage := biz.NewExtractionStage(invoker, newTestKnowledge(&fakeEmbedder{}), biz.DefaultModelTiers())
	profile := stage.Run(context.Background(), "run1")

	assert.Equal(t, "Acme", profile.CompanyInfo.Name)
	assert.Equal(t, "SaaS", profile.CompanyInfo.Sector)
	require.NotNil(t, profile.Metrics.MRR)
	assert.Equal(t, float64(50000), *profile.Metrics.MRR)

	// Keys absent from the response keep their defaults.
	assert.Equal(t, "Unknown", profile.CompanyInfo.Stage)
	assert.Equal(t, "Not stated", profile.Business.Problem)
	assert.Nil(t, profile.Metrics.ARR)
	assert.NotNil(t, profile.Team.Founders)
}

func TestExtractionStageInvokerFailureYieldsDefaultProfile(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.err = errInvokerDown

	stage := biz.NewExtractionStage(invoker, newTestKnowledge(&fakeEmbedder{}), biz.DefaultModelTiers())
	profile := stage.Run(context.Background(), "run1")

	assert.Equal(t, "Unknown", profile.CompanyInfo.Name)
	assert.Equal(t, "Not stated", profile.Business.Solution)
}

func TestExtractionStageUsesFastTier(t *testing.T) {
	invoker := newFakeInvoker()
	tiers := biz.ModelTiers{Fast: "fast-model", Pro: "pro-model"}

	stage := biz.NewExtractionStage(invoker, newTestKnowledge(&fakeEmbedder{}), tiers)
	stage.Run(context.Background(), "run1")

	req := invoker.requestFor("Extract structured information")
	require.NotNil(t, req)
	assert.Equal(t, "fast-model", req.Model)
	assert.False(t, req.EnableSearch)
}

func TestExtractionStageMalformedResponseYieldsDefaultProfile(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.respond("Extract structured information", `{"company_info": "not an object"}`)

	stage := biz.NewExtractionStage(invoker, newTestKnowledge(&fakeEmbedder{}), biz.DefaultModelTiers())
	profile := stage.Run(context.Background(), "run1")

	assert.Equal(t, "Unknown", profile.CompanyInfo.Name)
}
