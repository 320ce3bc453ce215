package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ContractFields is what the model is asked to return for a contract.
// Dates are ISO yyyy-mm-dd strings; enum values are validated by the caller.
type ContractFields struct {
	Title                 string   `json:"title"`
	Artists               []string `json:"artists"`
	StartDate             string   `json:"start_date"`
	EndDate               string   `json:"end_date"`
	Status                string   `json:"status"`
	IsPossibleToExpand    string   `json:"is_possible_to_expand"`
	PossibleExtensionTime string   `json:"possible_extension_time"`
	Summary               string   `json:"summary"`
}

const contractSystemPrompt = `You extract data from music industry contracts.
Reply with one JSON object and nothing else, using these keys:
"title" (short contract title), "artists" (array of artist names),
"start_date" and "end_date" (yyyy-mm-dd or empty), "status" ("active",
"finished" or "unspecified"), "is_possible_to_expand" ("yes", "no" or
"unspecified"), "possible_extension_time" (free text, empty if none),
"summary" (at most five sentences, in the contract's language).
Use empty strings when a value is not stated.`

// maxPromptChars keeps long contracts inside the model context.
const maxPromptChars = 60000

// ExtractContract asks the model for contract fields found in text.
func (c *Client) ExtractContract(ctx context.Context, fileName, text string) (ContractFields, error) {
	user := fmt.Sprintf("File name: %s\n\nContract text:\n%s", fileName, clip(text, maxPromptChars))

	content, err := c.Complete(ctx, contractSystemPrompt, user, true)
	if err != nil {
		return ContractFields{}, err
	}
	return ParseContractFields(content)
}

// clip cuts s to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// ParseContractFields decodes a model reply, tolerating code fences and
// prose around the JSON object.
func ParseContractFields(content string) (ContractFields, error) {
	var out ContractFields
	s := unfence(strings.TrimSpace(content))

	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if err := json.Unmarshal([]byte(s[i:j+1]), &out); err == nil {
				return out, nil
			}
		}
	}
	return ContractFields{}, fmt.Errorf("llm: reply is not a contract JSON object: %s", abbreviate(s, 300))
}

func unfence(s string) string {
	idx := strings.Index(s, "```")
	if idx < 0 {
		return s
	}
	rest := strings.TrimPrefix(s[idx+3:], "json")
	if j := strings.Index(rest, "```"); j >= 0 {
		return strings.TrimSpace(rest[:j])
	}
	return s
}
