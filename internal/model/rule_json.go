package model

import (
	"encoding/json"
	"fmt"
)

// ruleEnvelope is the wire/document form of ParsedRule. Params is decoded
// into the concrete type selected by Kind.
type ruleEnvelope struct {
	Kind              RuleKind         `json:"kind"`
	SourceText        string           `json:"source_text"`
	Params            json.RawMessage  `json:"params,omitempty"`
	OriginSource      SourceKind       `json:"origin_source,omitempty"`
	FromSectionHeader bool             `json:"from_section_header,omitempty"`
	Confidence        float64          `json:"confidence"`
	Method            ExtractionMethod `json:"method"`
}

// MarshalJSON encodes the rule with its kind-tagged params object.
func (r ParsedRule) MarshalJSON() ([]byte, error) {
	env := ruleEnvelope{
		Kind:              r.Kind,
		SourceText:        r.SourceText,
		OriginSource:      r.OriginSource,
		FromSectionHeader: r.FromSectionHeader,
		Confidence:        r.Confidence,
		Method:            r.Method,
	}
	if r.Params != nil {
		raw, err := json.Marshal(r.Params)
		if err != nil {
			return nil, fmt.Errorf("marshal %s params: %w", r.Kind, err)
		}
		env.Params = raw
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes the envelope and re-types params by kind.
func (r *ParsedRule) UnmarshalJSON(data []byte) error {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	params, err := DecodeParams(env.Kind, env.Params)
	if err != nil {
		return err
	}
	*r = ParsedRule{
		Kind:              env.Kind,
		SourceText:        env.SourceText,
		Params:            params,
		OriginSource:      env.OriginSource,
		FromSectionHeader: env.FromSectionHeader,
		Confidence:        env.Confidence,
		Method:            env.Method,
	}
	return nil
}

// DecodeParams decodes a raw JSON params object into the concrete payload
// type for kind. A nil/empty raw yields the kind's zero payload.
func DecodeParams(kind RuleKind, raw json.RawMessage) (RuleParams, error) {
	decode := func(v RuleParams) (RuleParams, error) {
		if len(raw) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, fmt.Errorf("decode %s params: %w", kind, err)
		}
		return v, nil
	}

	switch kind {
	case KindTierRestriction:
		p, err := decode(&TierParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*TierParams), nil
	case KindSpecialtyRestriction:
		p, err := decode(&SpecialtyParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*SpecialtyParams), nil
	case KindMutualExclusion:
		p, err := decode(&ExclusionParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*ExclusionParams), nil
	case KindFrequencyLimit:
		p, err := decode(&FrequencyParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*FrequencyParams), nil
	case KindDiagnosisCondition:
		p, err := decode(&DiagnosisParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*DiagnosisParams), nil
	case KindAgeRestriction:
		p, err := decode(&AgeParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*AgeParams), nil
	case KindDentalTreatment:
		return DentalParams{}, nil
	case KindGeneralNote:
		p, err := decode(&NoteParams{})
		if err != nil {
			return nil, err
		}
		return *p.(*NoteParams), nil
	default:
		return nil, fmt.Errorf("unknown rule kind %q", kind)
	}
}
