package analyze

import (
	"regexp"
	"strings"
)

// ConsiderationAnswer pairs a consideration question with the model's
// answer, empty when the answer could not be located in the output.
type ConsiderationAnswer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AttributeResult is the parsed analysis of one control attribute.
type AttributeResult struct {
	Attribute        string                `json:"attribute"`
	RequiredQuestion string                `json:"required_question"`
	RequiredAnswer   string                `json:"required_answer"`
	Considerations   []ConsiderationAnswer `json:"considerations"`
	Evidence         string                `json:"evidence"`
	SummaryComment   string                `json:"summary_comment"`
}

var (
	requiredAnswerRe = regexp.MustCompile(`(?s)Required Question:\s*(.*?)\n+(.*?)\n`)
	evidenceRe       = regexp.MustCompile(`(?s)Evidence\s*[:\-]?\s*\n(.*?)\n(?:\n|Summary Comment|\z)`)
	summaryRe        = regexp.MustCompile(`(?s)Summary Comment\s*[:\-]?\s*\n?(.*)`)
)

// ParseOutput extracts the structured fields from the model's free-text
// answer. Fields the output does not contain parse to empty strings;
// the result always carries one entry per consideration question.
func ParseOutput(attr ControlAttribute, raw string) AttributeResult {
	result := AttributeResult{
		Attribute:        attr.Attribute,
		RequiredQuestion: attr.Required,
		Considerations:   make([]ConsiderationAnswer, 0, len(attr.Considerations)),
	}

	if m := requiredAnswerRe.FindStringSubmatch(raw); m != nil {
		result.RequiredAnswer = strings.TrimSpace(m[2])
	}

	for _, question := range attr.Considerations {
		re := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(question) + `\s*[:\-]?\s*\n(.*?)\n(?:\n|Consideration Question|\z)`)
		answer := ""
		if m := re.FindStringSubmatch(raw); m != nil {
			answer = strings.TrimSpace(m[1])
		}
		result.Considerations = append(result.Considerations, ConsiderationAnswer{
			Question: question,
			Answer:   answer,
		})
	}

	if m := evidenceRe.FindStringSubmatch(raw); m != nil {
		result.Evidence = strings.TrimSpace(m[1])
	}
	if m := summaryRe.FindStringSubmatch(raw); m != nil {
		result.SummaryComment = strings.TrimSpace(m[1])
	}

	return result
}
