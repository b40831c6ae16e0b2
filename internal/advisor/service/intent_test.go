package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smallbiznis/storefront/internal/advisor/domain"
	modedomain "github.com/smallbiznis/storefront/internal/businessmode/domain"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orchestratorStub(t *testing.T, status int, response domain.RecommendModelResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/llm-orchestrator/recommend-model", r.URL.Path)

		var req domain.RecommendModelRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Lang)

		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
}

func TestIntentRemoteSuccess(t *testing.T) {
	server := orchestratorStub(t, http.StatusOK, domain.RecommendModelResponse{
		Greeting:            "Hi!",
		RecommendationIntro: "Here is what fits.",
		RecommendedModel:    "freemium",
		WhyThisFits:         "A free tier matches an audience that has not paid yet.",
		HowItWorks:          "Core features stay free; add-ons are paid.",
		NextSteps:           []string{"Pick free-tier limits"},
		Alternatives:        []domain.AlternativeModel{{Model: "subscription", BriefReason: "If retention is already strong."}},
	})
	defer server.Close()

	svc := newTestAdvisor(config.Config{
		AdvisorOrchestratorURL: server.URL,
		AdvisorTimeout:         time.Second,
		AdvisorDefaultLang:     "en",
	})

	rec := svc.RecommendFromIntent(context.Background(), domain.IntentRequest{Text: "I want to attract new users first"})

	assert.Equal(t, modedomain.ModeFreemium, rec.Mode)
	assert.Equal(t, domain.SourceRemote, rec.Source)
	assert.Contains(t, rec.Reasoning, "A free tier matches an audience that has not paid yet.")
	require.Len(t, rec.Alternatives, 1)
	assert.Equal(t, modedomain.ModeSubscription, rec.Alternatives[0].Mode)
}

func TestIntentFallbackVietnameseRetailKeyword(t *testing.T) {
	server := orchestratorStub(t, http.StatusBadGateway, domain.RecommendModelResponse{})
	defer server.Close()

	svc := newTestAdvisor(config.Config{
		AdvisorOrchestratorURL: server.URL,
		AdvisorTimeout:         time.Second,
		AdvisorDefaultLang:     "vi",
	})

	rec := svc.RecommendFromIntent(context.Background(), domain.IntentRequest{Text: "Tôi muốn bán lẻ sản phẩm B", Lang: "vi"})

	assert.Equal(t, modedomain.ModeRetail, rec.Mode)
	assert.Equal(t, domain.SourceLocal, rec.Source)
	assert.NotEmpty(t, rec.Reasoning)
}

func TestIntentFallbackKeywordPriority(t *testing.T) {
	svc := newTestAdvisor(config.Config{})

	// Subscription keywords outrank retail keywords when both appear.
	rec := svc.RecommendFromIntent(context.Background(), domain.IntentRequest{
		Text: "move my retail store to a subscription model",
	})

	assert.Equal(t, modedomain.ModeSubscription, rec.Mode)
	assert.Equal(t, domain.SourceLocal, rec.Source)
}

func TestIntentFallbackDefaultsToSubscription(t *testing.T) {
	svc := newTestAdvisor(config.Config{})

	rec := svc.RecommendFromIntent(context.Background(), domain.IntentRequest{Text: "help me grow"})

	assert.Equal(t, modedomain.ModeSubscription, rec.Mode)
	assert.Equal(t, domain.SourceLocal, rec.Source)
	assert.NotEmpty(t, rec.Reasoning)
}

func TestIntentFallbackShapeMatchesRemoteShape(t *testing.T) {
	response := domain.RecommendModelResponse{
		RecommendationIntro: "intro",
		RecommendedModel:    "subscription",
		WhyThisFits:         "fits",
		HowItWorks:          "works",
		NextSteps:           []string{"step"},
	}
	server := orchestratorStub(t, http.StatusOK, response)
	defer server.Close()

	cfg := config.Config{
		AdvisorOrchestratorURL: server.URL,
		AdvisorTimeout:         time.Second,
		AdvisorDefaultLang:     "en",
	}
	intent := domain.IntentRequest{Text: "switch to monthly subscription for [product group A]"}

	remoteRec := newTestAdvisor(cfg).RecommendFromIntent(context.Background(), intent)

	// Same intent with the orchestrator unreachable.
	localRec := newTestAdvisor(config.Config{}).RecommendFromIntent(context.Background(), intent)
	assert.Equal(t, domain.SourceRemote, remoteRec.Source)
	assert.Equal(t, domain.SourceLocal, localRec.Source)

	// Field sets must be identical so rendering cannot tell the paths
	// apart; content is allowed to differ.
	assert.ElementsMatch(t, jsonKeys(t, remoteRec), jsonKeys(t, localRec))
	assert.Equal(t, "product group A", remoteRec.ProductGroup)
	assert.Equal(t, "product group A", localRec.ProductGroup)
}

func jsonKeys(t *testing.T, rec domain.Recommendation) []string {
	t.Helper()
	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	keys := make([]string, 0, len(decoded))
	for key := range decoded {
		keys = append(keys, key)
	}
	return keys
}

func TestExtractProductGroup(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{`switch [Group A] to subscription`, "Group A"},
		{`switch "Winter Bundle" to retail`, "Winter Bundle"},
		{`switch 'Starter Pack' to freemium`, "Starter Pack"},
		{`no group mentioned`, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractProductGroup(tc.text), tc.text)
	}
}
