package analyze

import (
	"strings"
	"testing"

	"github.com/procdocs/sopstruct/internal/engine"
)

var sampleAttr = ControlAttribute{
	Attribute: "Reporting",
	Required:  "Does the activity have an established reporting process in place?",
	Considerations: []string{
		"Is the control reporting timely?",
		"Is the communication being delivered to the correct stakeholders?",
	},
}

func TestParseOutput_AllFields(t *testing.T) {
	raw := `Required Question:
Does the activity have an established reporting process in place?
Yes, section 5.2 defines a monthly reporting cadence.

Is the control reporting timely?
Reports are produced within five business days of month end.

Is the communication being delivered to the correct stakeholders?
Distribution covers the operations committee and control owners.

Evidence:
Section 5.2 Reporting Requirements

Summary Comment:
The reporting process is well established and timely.`

	result := ParseOutput(sampleAttr, raw)

	if result.Attribute != "Reporting" {
		t.Errorf("attribute: %q", result.Attribute)
	}
	if result.RequiredQuestion != sampleAttr.Required {
		t.Errorf("required question not carried through")
	}
	if result.RequiredAnswer != "Yes, section 5.2 defines a monthly reporting cadence." {
		t.Errorf("required answer: %q", result.RequiredAnswer)
	}
	if len(result.Considerations) != 2 {
		t.Fatalf("expected 2 considerations, got %d", len(result.Considerations))
	}
	if got := result.Considerations[0].Answer; got != "Reports are produced within five business days of month end." {
		t.Errorf("consideration 0 answer: %q", got)
	}
	if got := result.Considerations[1].Answer; got != "Distribution covers the operations committee and control owners." {
		t.Errorf("consideration 1 answer: %q", got)
	}
	if result.Evidence != "Section 5.2 Reporting Requirements" {
		t.Errorf("evidence: %q", result.Evidence)
	}
	if result.SummaryComment != "The reporting process is well established and timely." {
		t.Errorf("summary: %q", result.SummaryComment)
	}
}

func TestParseOutput_MissingFieldsAreEmpty(t *testing.T) {
	result := ParseOutput(sampleAttr, "nothing recognizable here")

	if result.RequiredAnswer != "" {
		t.Errorf("required answer should be empty, got %q", result.RequiredAnswer)
	}
	if len(result.Considerations) != 2 {
		t.Fatalf("must carry one entry per consideration even unanswered, got %d", len(result.Considerations))
	}
	for i, c := range result.Considerations {
		if c.Answer != "" {
			t.Errorf("consideration %d should be empty, got %q", i, c.Answer)
		}
		if c.Question != sampleAttr.Considerations[i] {
			t.Errorf("consideration %d question mismatch", i)
		}
	}
	if result.Evidence != "" || result.SummaryComment != "" {
		t.Errorf("evidence/summary should be empty: %q / %q", result.Evidence, result.SummaryComment)
	}
}

func TestParseOutput_QuestionWithRegexMetacharacters(t *testing.T) {
	attr := ControlAttribute{
		Attribute:      "Process Alignment",
		Required:       "Is the frequency right?",
		Considerations: []string{"Is the nature (e.g. Preventive or Detective) in line?"},
	}
	raw := `Is the nature (e.g. Preventive or Detective) in line?
Yes, the control is detective and runs daily.

Evidence:
Section 3`

	result := ParseOutput(attr, raw)
	if got := result.Considerations[0].Answer; got != "Yes, the control is detective and runs daily." {
		t.Errorf("metacharacter question must be quoted, got %q", got)
	}
}

func TestBuildPrompt_EmbedsAttributeAndRoles(t *testing.T) {
	roles := engine.RoleAssignments{
		{Role: "Compliance Officer", Responsibilities: []string{"Review filings"}},
	}
	prompt, err := BuildPrompt(sampleAttr, "SOP body text", roles)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	for _, want := range []string{
		"Attribute: Reporting",
		sampleAttr.Required,
		sampleAttr.Considerations[0],
		"SOP body text",
		"Compliance Officer",
		"Review filings",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_NilRoles(t *testing.T) {
	prompt, err := BuildPrompt(sampleAttr, "text", nil)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}
	if !strings.Contains(prompt, "{}") {
		t.Errorf("nil roles should render as empty object")
	}
}

func TestCapText(t *testing.T) {
	if got := CapText("abcdef", 4); got != "abcd" {
		t.Errorf("got %q", got)
	}
	if got := CapText("abc", 15000); got != "abc" {
		t.Errorf("short text must pass through, got %q", got)
	}
	if got := CapText("abc", 0); got != "abc" {
		t.Errorf("zero cap disables truncation, got %q", got)
	}
}

func TestDefaultAttributes(t *testing.T) {
	if len(DefaultAttributes) != 10 {
		t.Fatalf("expected 10 built-in attributes, got %d", len(DefaultAttributes))
	}
	for _, attr := range DefaultAttributes {
		if attr.Attribute == "" || attr.Required == "" || len(attr.Considerations) == 0 {
			t.Errorf("incomplete attribute: %+v", attr.Attribute)
		}
	}
}
