package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"health-finance-api/internal/model"
)

const (
	maxContributions    = 10
	maxTopFeatures      = 10
	neutralContribution = 0.01
)

func impactOf(contribution float64) string {
	switch {
	case contribution > neutralContribution:
		return "increases_risk"
	case contribution < -neutralContribution:
		return "decreases_risk"
	default:
		return "neutral"
	}
}

// explain раскладывает прогноз на вклады признаков и правила риска
func (s *Scorecard) explain(f features, terms []term, probability float64) *model.Explanation {
	contributions := make([]model.FeatureContribution, 0, len(terms))
	for _, t := range terms {
		contributions = append(contributions, model.FeatureContribution{
			Feature:      t.Feature,
			Value:        t.Value,
			Category:     t.Category,
			Importance:   s.Importance[t.Feature],
			Contribution: t.Contribution,
			Impact:       impactOf(t.Contribution),
		})
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return math.Abs(contributions[i].Contribution) > math.Abs(contributions[j].Contribution)
	})
	if len(contributions) > maxContributions {
		contributions = contributions[:maxContributions]
	}

	riskFactors := modelRiskFactors(f)

	verdict := "LOW RISK"
	if probability >= s.Threshold {
		verdict = "HIGH RISK"
	}

	return &model.Explanation{
		Summary:              fmt.Sprintf("Model predicts %s of default (probability: %.1f%%)", verdict, probability*100),
		Reasoning:            reasoning(contributions, riskFactors),
		FeatureContributions: contributions,
		TopFeatures:          s.topFeatures(),
		RiskFactors:          riskFactors,
		Method:               "logistic_contribution",
		Threshold:            s.Threshold,
	}
}

func (s *Scorecard) topFeatures() []model.FeatureImportance {
	out := make([]model.FeatureImportance, 0, len(s.Importance))
	for name, imp := range s.Importance {
		out = append(out, model.FeatureImportance{Feature: name, Importance: imp})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Importance != out[j].Importance {
			return out[i].Importance > out[j].Importance
		}
		return out[i].Feature < out[j].Feature
	})
	if len(out) > maxTopFeatures {
		out = out[:maxTopFeatures]
	}
	return out
}

// modelRiskFactors - фиксированные правила по инженерным признакам
func modelRiskFactors(f features) []model.ModelRiskFactor {
	factors := []model.ModelRiskFactor{}

	if r := f.Numeric["ratio_bunga"]; r > 0.2 {
		factors = append(factors, model.ModelRiskFactor{
			Factor:   "High Interest Rate",
			Detail:   fmt.Sprintf("Interest ratio of %.1f%% is above the 20%% threshold", r*100),
			Severity: model.SeverityHigh,
		})
	}
	if d := f.Numeric["durasi_hari"]; d > 180 {
		factors = append(factors, model.ModelRiskFactor{
			Factor:   "Long Loan Duration",
			Detail:   fmt.Sprintf("Duration of %.0f days exceeds 180 days", d),
			Severity: model.SeverityMedium,
		})
	}
	if p := f.Numeric["debt_pressure"]; p > 30 {
		factors = append(factors, model.ModelRiskFactor{
			Factor:   "High Debt Pressure",
			Detail:   fmt.Sprintf("Debt pressure index of %.1f is above 30", p),
			Severity: model.SeverityHigh,
		})
	}
	if b := f.Numeric["beban_per_hari"]; b > 100_000 {
		factors = append(factors, model.ModelRiskFactor{
			Factor:   "High Daily Burden",
			Detail:   fmt.Sprintf("Daily repayment burden of %s exceeds Rp 100,000", formatRupiah(b)),
			Severity: model.SeverityMedium,
		})
	}

	return factors
}

func reasoning(contributions []model.FeatureContribution, factors []model.ModelRiskFactor) string {
	drivers := make([]string, 0, 3)
	for _, c := range contributions {
		if len(drivers) == 3 {
			break
		}
		if c.Impact == "neutral" {
			continue
		}
		drivers = append(drivers, fmt.Sprintf("%s (%s)", c.Feature, strings.ReplaceAll(c.Impact, "_", " ")))
	}

	var b strings.Builder
	if len(drivers) == 0 {
		b.WriteString("No single feature dominates the prediction.")
	} else {
		b.WriteString("Main drivers: " + strings.Join(drivers, ", ") + ".")
	}
	if len(factors) > 0 {
		fmt.Fprintf(&b, " %d rule-based risk factor(s) detected.", len(factors))
	}
	return b.String()
}
