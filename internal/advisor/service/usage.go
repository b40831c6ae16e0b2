package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/storefront/internal/advisor/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
)

// Rule-table thresholds. Each branch below fixes its own confidence,
// reasoning, benefits, savings estimate and risk level.
const (
	retailToSubscriptionSpend   = 100.0
	freemiumSaturationPurchases = 5
	engagementFloor             = loginRankWeekly
)

const (
	loginRankRarely  = 0
	loginRankMonthly = 1
	loginRankWeekly  = 4
	loginRankDaily   = 30
)

func loginRank(frequency string) int {
	switch strings.ToLower(strings.TrimSpace(frequency)) {
	case "daily":
		return loginRankDaily
	case "weekly":
		return loginRankWeekly
	case "monthly":
		return loginRankMonthly
	default:
		return loginRankRarely
	}
}

// RecommendFromUsage evaluates the deterministic rule table in priority
// order; the first matching branch wins.
func (s *Service) RecommendFromUsage(_ context.Context, signals domain.UsageSignals) domain.Recommendation {
	switch {
	case signals.CurrentMode == modedomain.ModeRetail && signals.MonthlySpend > retailToSubscriptionSpend:
		return domain.Recommendation{
			Mode:       modedomain.ModeSubscription,
			Confidence: 92,
			Reasoning: []string{
				fmt.Sprintf("Monthly spend of $%.2f is above the $%.0f level where a subscription becomes cheaper than one-off purchases.", signals.MonthlySpend, retailToSubscriptionSpend),
				fmt.Sprintf("A %s login habit shows the engagement a recurring plan rewards.", strings.ToLower(orUnknown(signals.LoginFrequency))),
			},
			Benefits: []domain.Benefit{
				{Title: "Predictable billing", Detail: "One flat monthly charge replaces variable per-purchase totals."},
				{Title: "Member pricing", Detail: "Subscription tiers unlock lower unit prices across the catalogue."},
			},
			EstimatedSavings: "$240/year",
			RiskLevel:        domain.RiskLow,
			HowItWorks:       "Purchases are folded into a recurring plan billed monthly; existing order history carries over unchanged.",
			NextSteps:        []string{"Review subscription tiers", "Pick a billing day", "Confirm the switch"},
			Alternatives:     []domain.Alternative{},
			Source:           domain.SourceUsage,
		}

	case signals.CurrentMode == modedomain.ModeFreemium && signals.PurchaseCount > freemiumSaturationPurchases:
		return domain.Recommendation{
			Mode:       modedomain.ModeSubscription,
			Confidence: 88,
			Reasoning: []string{
				fmt.Sprintf("%d add-on purchases exceed what the free tier is designed to absorb.", signals.PurchaseCount),
				"Bundling recurring add-ons into a plan removes per-purchase friction.",
			},
			Benefits: []domain.Benefit{
				{Title: "Everything included", Detail: "Add-ons you already buy become part of the plan."},
				{Title: "No checkout friction", Detail: "Stop re-purchasing the same upgrades every cycle."},
			},
			EstimatedSavings: "$120/year",
			RiskLevel:        domain.RiskLow,
			HowItWorks:       "The free tier is replaced by a paid plan covering the add-ons bought most often.",
			NextSteps:        []string{"Compare plan contents with recent add-on purchases", "Confirm the switch"},
			Alternatives:     []domain.Alternative{},
			Source:           domain.SourceUsage,
		}

	case signals.CurrentMode == modedomain.ModeSubscription && loginRank(signals.LoginFrequency) < engagementFloor:
		return domain.Recommendation{
			Mode:       modedomain.ModeFreemium,
			Confidence: 85,
			Reasoning: []string{
				fmt.Sprintf("A %s login habit is below the engagement a paid plan assumes.", strings.ToLower(orUnknown(signals.LoginFrequency))),
				"A free tier with pay-as-you-go add-ons fits occasional use better.",
			},
			Benefits: []domain.Benefit{
				{Title: "Pay only when active", Detail: "No recurring charge during quiet months."},
				{Title: "Keep your account", Detail: "History and settings survive the downgrade."},
			},
			EstimatedSavings: "$180/year",
			RiskLevel:        domain.RiskMedium,
			HowItWorks:       "The plan ends at the current period; the account drops to the free tier with add-ons available on demand.",
			NextSteps:        []string{"Check which plan features you still use", "Confirm the downgrade"},
			Alternatives:     []domain.Alternative{},
			Source:           domain.SourceUsage,
		}

	default:
		return domain.Recommendation{
			Mode:       signals.CurrentMode,
			Confidence: 95,
			Reasoning: []string{
				fmt.Sprintf("Current usage fits the %s model well; no change is warranted.", string(signals.CurrentMode)),
			},
			Benefits: []domain.Benefit{
				{Title: "No disruption", Detail: "Billing and features stay exactly as they are."},
			},
			EstimatedSavings: "$0/year",
			RiskLevel:        domain.RiskLow,
			HowItWorks:       "Nothing changes; the current model already matches observed usage.",
			NextSteps:        []string{"Revisit after usage patterns shift"},
			Alternatives:     []domain.Alternative{},
			Source:           domain.SourceUsage,
		}
	}
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "unknown"
	}
	return value
}
