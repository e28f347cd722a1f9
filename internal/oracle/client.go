package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/gyeh/sutcheck/internal/model"
)

const defaultModel = "claude-sonnet-4-5-20250929"

// Client is the hosted-LLM implementation of Extractor.
type Client struct {
	client anthropic.Client
	model  string
}

// NewClient builds an oracle client from an API key. Model may be empty.
func NewClient(apiKey, modelName string) *Client {
	if modelName == "" {
		modelName = defaultModel
	}
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}
}

const systemPrompt = `You extract structured billing rules from Turkish health-insurance regulation text (SUT).
For each numbered item, read the description and emit zero or more rules.
Rule kinds: tier_restriction {"tiers":[int],"mode":"exact"|"at_least"},
specialty_restriction {"specialties":[string]},
mutual_exclusion {"codes":[string],"wildcard":bool,"same_tooth_only":bool},
frequency_limit {"max_count":int,"per":"day"|"week"|"month"|"year","interval_days":int,"same_specialty":bool,"same_tooth":bool},
diagnosis_condition {"codes":[string]},
age_restriction {"min_age":int,"max_age":int},
dental_treatment {},
general_note {"text":string}.
Do not emit a restriction for expansive phrasing ("X uzmanı tarafından da yapılabilir") or for tier price increments.
Respond with JSON only, no markdown, keyed by the item's localIndex as a string:
{"0":{"rules":[{"kind":"...","params":{...},"confidence":0.9,"explanation":"..."}],"crossRefs":["2.4.4.D-1"],"explanation":"..."}}`

// ExtractBatch submits one batch and maps the reply back to typed rules.
// The reply may arrive wrapped in a fenced code block. A 401/403 from the
// service is surfaced as ErrAuthFailed.
func (c *Client) ExtractBatch(ctx context.Context, items []Item) (map[int]ItemRules, error) {
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "localIndex:%d code:%s source:%s\n%s\n\n", it.LocalIndex, it.Code, it.Source, it.Description)
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(sb.String())),
		},
	})
	if err != nil {
		var apierr *anthropic.Error
		if errors.As(err, &apierr) && (apierr.StatusCode == 401 || apierr.StatusCode == 403) {
			return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
		}
		return nil, fmt.Errorf("oracle request: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return ParseReply(text.String())
}

// replyRule is one rule in the oracle's reply JSON.
type replyRule struct {
	Kind        string          `json:"kind"`
	Params      json.RawMessage `json:"params"`
	Confidence  float64         `json:"confidence"`
	Explanation string          `json:"explanation"`
}

type replyItem struct {
	Rules       []replyRule `json:"rules"`
	CrossRefs   []string    `json:"crossRefs"`
	Explanation string      `json:"explanation"`
}

// ParseReply decodes the oracle reply, tolerating a fenced code block
// wrapper, and re-types every rule's params by kind. Rules of unknown kind
// or with undecodable params are dropped, not fatal.
func ParseReply(text string) (map[int]ItemRules, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw map[string]replyItem
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse oracle reply: %w", err)
	}

	out := make(map[int]ItemRules, len(raw))
	for key, item := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		ir := ItemRules{CrossRefs: item.CrossRefs, Explanation: item.Explanation}
		for _, rr := range item.Rules {
			params, err := model.DecodeParams(model.RuleKind(rr.Kind), rr.Params)
			if err != nil {
				continue
			}
			ir.Rules = append(ir.Rules, model.ParsedRule{
				Kind:       params.RuleKind(),
				SourceText: rr.Explanation,
				Params:     params,
				Confidence: rr.Confidence,
				Method:     model.MethodOracle,
			})
		}
		out[idx] = ir
	}
	return out, nil
}
