package view

import (
	"encoding/json"
	"fmt"
)

// Candidate pairs a decoded spec with any structural problem found while
// decoding it. A candidate with a non-nil Err still flows through the
// pipeline and becomes a single invalid result.
type Candidate struct {
	Spec Spec
	Err  error
}

type envelope struct {
	Views   json.RawMessage `json:"views"`
	Data    json.RawMessage `json:"data"`
	Items   json.RawMessage `json:"items"`
	Results json.RawMessage `json:"results"`
}

// DecodeBatch decodes a batch of candidate specs. The canonical shape is
// {"views": [...]}; a bare array and the data/items/results envelope keys
// are salvaged too. Elements that fail to decode or normalize are returned
// as candidates carrying the error.
func DecodeBatch(data []byte) ([]Candidate, error) {
	raw, err := extractList(data)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(raw))
	for i, item := range raw {
		var spec Spec
		if err := json.Unmarshal(item, &spec); err != nil {
			candidates = append(candidates, Candidate{
				Spec: Spec{Name: fmt.Sprintf("candidate_%d", i+1)},
				Err:  fmt.Errorf("malformed candidate #%d: %w", i+1, err),
			})
			continue
		}

		if err := spec.Normalize(); err != nil {
			if spec.Name == "" {
				spec.Name = fmt.Sprintf("candidate_%d", i+1)
			}
			candidates = append(candidates, Candidate{Spec: spec, Err: err})
			continue
		}

		candidates = append(candidates, Candidate{Spec: spec})
	}

	return candidates, nil
}

func extractList(data []byte) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse candidate batch: %w", err)
	}

	for _, raw := range [][]byte{env.Views, env.Data, env.Items, env.Results} {
		if len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, &list); err == nil {
			return list, nil
		}
		// A single object under the key counts as a one-element batch.
		var single json.RawMessage
		if err := json.Unmarshal(raw, &single); err == nil && len(single) > 0 && single[0] == '{' {
			return []json.RawMessage{single}, nil
		}
	}

	return nil, fmt.Errorf("candidate batch contains no view list")
}
