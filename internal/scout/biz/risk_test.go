package biz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venturescout/venturescout/internal/model"
	"github.com/venturescout/venturescout/internal/scout/biz"
)

func TestRiskStageNormalizesRedFlags(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.respond("RED FLAGS", `{
		"red_flags": [
			{
				"type": "inconsistent_metrics",
				"severity": "HIGH",
				"title": "MRR mismatch",
				"description": "Deck claims 50k MRR, update email says 30k.",
				"evidence": ["deck p.4", "update email"],
				"impact": "Core traction numbers unreliable"
			},
			{
				"type": "financial_distress",
				"severity": "CRITICAL",
				"title": "Three months runway",
				"description": "Burn exceeds raise plan."
			}
		],
		"risk_score": 78,
		"overall_assessment": "High Risk"
	}`)

	stage := biz.NewRiskStage(invoker, newTestKnowledge(&fakeEmbedder{}), biz.DefaultModelTiers())
	audit := stage.Run(context.Background(), "run1", model.DefaultProfile())

	assert.Equal(t, float64(78), audit.RiskScore)
	require.Len(t, audit.Risks, 2)
	assert.Equal(t, "High", audit.Risks[0].Severity)
	assert.Equal(t, "Inconsistent Metrics", audit.Risks[0].Category)
	assert.Equal(t, "MRR mismatch: Deck claims 50k MRR, update email says 30k.", audit.Risks[0].Description)
	assert.Equal(t, "Critical", audit.Risks[1].Severity)
	assert.Equal(t, "Financial Distress", audit.Risks[1].Category)
}

func TestRiskStageFailureYieldsDefaultAudit(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.err = errInvokerDown

	stage := biz.NewRiskStage(invoker, newTestKnowledge(&fakeEmbedder{}), biz.DefaultModelTiers())
	audit := stage.Run(context.Background(), "run1", model.DefaultProfile())

	assert.Equal(t, float64(50), audit.RiskScore)
	assert.Empty(t, audit.RedFlags)
	assert.Empty(t, audit.Risks)
	assert.Equal(t, "Unable to assess - analysis error", audit.OverallAssessment)
}

func TestRiskStageEmptySeverityDefaultsToMedium(t *testing.T) {
	invoker := newFakeInvoker()
	invoker.respond("RED FLAGS", `{
		"red_flags": [{"title": "Vague", "description": "No severity given"}],
		"risk_score": 40,
		"overall_assessment": "Medium Risk"
	}`)

	stage := biz.NewRiskStage(invoker, newTestKnowledge(&fakeEmbedder{}), biz.DefaultModelTiers())
	audit := stage.Run(context.Background(), "run1", model.DefaultProfile())

	require.Len(t, audit.Risks, 1)
	assert.Equal(t, "Medium", audit.Risks[0].Severity)
	assert.Equal(t, "General", audit.Risks[0].Category)
}
