package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/smallbiznis/storefront/internal/advisor/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	"go.uber.org/zap"
)

// RecommendFromIntent is an explicit two-stage pipeline: attempt the
// remote orchestrator, or else substitute the local keyword heuristic.
// The caller sees a full Recommendation either way.
func (s *Service) RecommendFromIntent(ctx context.Context, req domain.IntentRequest) domain.Recommendation {
	productGroup := extractProductGroup(req.Text)

	rec, err := s.attemptRemote(ctx, req)
	if err != nil {
		s.log.Warn("remote intent recommendation failed, using local heuristic",
			zap.Error(err),
			zap.String("lang", req.Lang),
		)
		rec = localHeuristic(req.Text)
	}
	rec.ProductGroup = productGroup
	return rec
}

// Keyword sets scanned in priority order: subscription, then retail,
// then freemium. English and Vietnamese phrasings observed in intent
// statements.
var (
	subscriptionKeywords = []string{"subscription", "subscribe", "recurring", "monthly plan", "đăng ký", "thuê bao", "gói tháng"}
	retailKeywords       = []string{"retail", "one-time", "one time", "bán lẻ", "mua lẻ"}
	freemiumKeywords     = []string{"freemium", "free tier", "free plan", "miễn phí"}
)

func localHeuristic(text string) domain.Recommendation {
	lowered := strings.ToLower(text)

	mode := modedomain.ModeSubscription
	matched := false
	switch {
	case containsAny(lowered, subscriptionKeywords):
		mode = modedomain.ModeSubscription
		matched = true
	case containsAny(lowered, retailKeywords):
		mode = modedomain.ModeRetail
		matched = true
	case containsAny(lowered, freemiumKeywords):
		mode = modedomain.ModeFreemium
		matched = true
	}

	reasoning := []string{
		fmt.Sprintf("Your request reads as a fit for the %s model.", string(mode)),
	}
	if !matched {
		reasoning = []string{
			"No specific model came through in the request; subscription is the most common fit for recurring commerce.",
		}
	}

	return domain.Recommendation{
		Mode:             mode,
		Confidence:       localConfidence(matched),
		Reasoning:        reasoning,
		Benefits:         localBenefits(mode),
		EstimatedSavings: "varies",
		RiskLevel:        domain.RiskMedium,
		HowItWorks:       localHowItWorks(mode),
		NextSteps:        []string{"Review the suggested model", "Confirm the switch or ask again with more detail"},
		Alternatives:     []domain.Alternative{},
		Source:           domain.SourceLocal,
	}
}

func localConfidence(matched bool) int {
	if matched {
		return 70
	}
	return 55
}

func localBenefits(mode modedomain.Mode) []domain.Benefit {
	switch mode {
	case modedomain.ModeRetail:
		return []domain.Benefit{{Title: "Simple checkout", Detail: "Customers pay per purchase with no commitment."}}
	case modedomain.ModeFreemium:
		return []domain.Benefit{{Title: "Low barrier to entry", Detail: "A free tier attracts customers before they spend."}}
	default:
		return []domain.Benefit{{Title: "Recurring revenue", Detail: "Predictable income from repeat customers."}}
	}
}

func localHowItWorks(mode modedomain.Mode) string {
	switch mode {
	case modedomain.ModeRetail:
		return "The storefront lists products for one-time purchase; each order is billed individually."
	case modedomain.ModeFreemium:
		return "Core features are free; paid add-ons are offered where customers outgrow the free tier."
	default:
		return "Customers subscribe to a plan and are billed on a recurring cycle."
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// productGroupPattern matches a bracketed or quoted phrase, e.g.
// [Group A], "Group A" or 'Group A'.
var productGroupPattern = regexp.MustCompile(`\[([^\]]+)\]|"([^"]+)"|'([^']+)'`)

func extractProductGroup(text string) string {
	match := productGroupPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	for _, group := range match[1:] {
		if trimmed := strings.TrimSpace(group); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
