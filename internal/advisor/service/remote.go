package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/smallbiznis/storefront/internal/advisor/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
)

var errOrchestratorUnconfigured = errors.New("advisor orchestrator url not configured")

func (s *Service) attemptRemote(ctx context.Context, req domain.IntentRequest) (domain.Recommendation, error) {
	if s.cfg.AdvisorOrchestratorURL == "" {
		return domain.Recommendation{}, errOrchestratorUnconfigured
	}

	lang := strings.TrimSpace(req.Lang)
	if lang == "" {
		lang = s.cfg.AdvisorDefaultLang
	}

	body, err := json.Marshal(domain.RecommendModelRequest{
		BusinessDescription: req.Text,
		TargetAudience:      req.TargetAudience,
		Lang:                lang,
	})
	if err != nil {
		return domain.Recommendation{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AdvisorTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.AdvisorOrchestratorURL+"/llm-orchestrator/recommend-model", bytes.NewReader(body))
	if err != nil {
		return domain.Recommendation{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return domain.Recommendation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Recommendation{}, fmt.Errorf("orchestrator returned status %d", resp.StatusCode)
	}

	var remote domain.RecommendModelResponse
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return domain.Recommendation{}, err
	}

	mode := modedomain.ParseMode(remote.RecommendedModel)
	if !mode.Selected() {
		return domain.Recommendation{}, fmt.Errorf("orchestrator recommended unknown model %q", remote.RecommendedModel)
	}

	return fromRemote(mode, remote), nil
}

// fromRemote maps the orchestrator's structured response onto the same
// Recommendation shape the local heuristic produces.
func fromRemote(mode modedomain.Mode, remote domain.RecommendModelResponse) domain.Recommendation {
	reasoning := make([]string, 0, 2)
	if intro := strings.TrimSpace(remote.RecommendationIntro); intro != "" {
		reasoning = append(reasoning, intro)
	}
	if why := strings.TrimSpace(remote.WhyThisFits); why != "" {
		reasoning = append(reasoning, why)
	}

	alternatives := make([]domain.Alternative, 0, len(remote.Alternatives))
	for _, alt := range remote.Alternatives {
		altMode := modedomain.ParseMode(alt.Model)
		if !altMode.Selected() {
			continue
		}
		alternatives = append(alternatives, domain.Alternative{
			Mode:   altMode,
			Reason: alt.BriefReason,
		})
	}

	return domain.Recommendation{
		Mode:             mode,
		Confidence:       90,
		Reasoning:        reasoning,
		Benefits:         localBenefits(mode),
		EstimatedSavings: "varies",
		RiskLevel:        domain.RiskMedium,
		HowItWorks:       remote.HowItWorks,
		NextSteps:        remote.NextSteps,
		Alternatives:     alternatives,
		Source:           domain.SourceRemote,
	}
}
