package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/advdiary/advdiary/internal/config"
	"github.com/advdiary/advdiary/pkg/logger"
)

// FallbackMessage is returned whenever the generator is unreachable or
// misconfigured. Advisory text is never authoritative and its failure never
// reaches the case-management flow as an error.
const FallbackMessage = "Could not load AI insights at this time."

// Generator calls an external text model for hearing-preparation
// suggestions. It is injected into the API layer only; the ledger engines
// never see it.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	log     *logger.Logger
}

func NewGenerator(cfg *config.Config, log *logger.Logger) *Generator {
	return &Generator{
		client:  &http.Client{Timeout: cfg.AdvisoryTimeout},
		baseURL: cfg.AdvisoryBaseURL,
		apiKey:  cfg.AdvisoryAPIKey,
		model:   cfg.AdvisoryModel,
		log:     log,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// HearingPrep returns preparation suggestions for the next procedural step.
// Any failure degrades to FallbackMessage.
func (g *Generator) HearingPrep(ctx context.Context, caseType, step, notes string) string {
	if g.apiKey == "" {
		return FallbackMessage
	}

	prompt := fmt.Sprintf(
		"You are a legal assistant for an advocate using the 'Adv Diary' app. "+
			"The current case type is '%s' and the next procedural step is '%s'. "+
			"Here are the advocate's notes: '%s'. "+
			"Provide 3 concise, actionable bullet points for preparation for this specific court hearing.",
		caseType, step, notes,
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		g.log.Warn("Failed to encode advisory request", "error", err)
		return FallbackMessage
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		g.log.Warn("Failed to build advisory request", "error", err)
		return FallbackMessage
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warn("Advisory call failed", "error", err)
		return FallbackMessage
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.log.Warn("Advisory call returned non-OK status", "status", resp.StatusCode)
		return FallbackMessage
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		g.log.Warn("Failed to decode advisory response", "error", err)
		return FallbackMessage
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return FallbackMessage
	}

	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return FallbackMessage
	}
	return text
}
