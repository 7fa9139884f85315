package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/procdocs/sopstruct/internal/engine"
)

// ControlAttribute is one dimension of the control review. Each
// attribute is analyzed in its own LLM call.
type ControlAttribute struct {
	Attribute      string   `json:"attribute"`
	Required       string   `json:"required"`
	Considerations []string `json:"considerations"`
}

// DefaultAttributes is the built-in control testing rubric, used when
// no review template is available in the object store.
var DefaultAttributes = []ControlAttribute{
	{
		Attribute: "Risk and Objective Alignment",
		Required:  "Do the activities and the parameters of the control align with the objective and risk it is intending to mitigate?",
		Considerations: []string{
			"Will the control mitigate the risk if performing as intended?",
			"Is the control frequency and control nature (e.g. Preventive or Detective) in line with the risk that it is intended to mitigate?",
			"Does the control cover all intended products and services?",
		},
	},
	{
		Attribute: "Process Alignment",
		Required:  "Is the control being executed at the proper frequency and point in the process to ensure timely detection / prevention of its associated risks?",
		Considerations: []string{
			"Is the control being performed less frequently when compared to the process/activity?",
			"Is the control occurring within the process at the right time to achieve the objective?",
		},
	},
	{
		Attribute: "Standards Alignment",
		Required:  "Does the control align to any applicable control testing standards, regulatory requirements and relevant policies/procedures?",
		Considerations: []string{
			"If applicable, is the control aligned to outdated polices/procedures?",
			"Has there been new regulatory guidance that would be applicable to the control?",
		},
	},
	{
		Attribute: "Documentation",
		Required:  "Are the 5 W's ('Who', 'What', 'When', 'Where', 'Why') clearly articulated in the control descriptions or other dedicated fields?",
		Considerations: []string{
			"Who - who performs the control",
			"What - what control activity is performed that helps achieve the objective",
			"When - when the control is performed",
			"Where - where a control is positioned in the business process. Where it is performed, where it is evidenced",
			"Why - why the control is performed",
		},
	},
	{
		Attribute: "Data Integrity",
		Required:  "Is the data, information and/or systems in which the control is dependent upon free of any known issues? Does the control owner/performer have the ability to provide the assurance the data utilized is complete and accurate for conducting the control?",
		Considerations: []string{
			"Consider whether the data or information elements used are appropriate to achieve the control objective.",
			"Is the control leveraging the right data/information source to perform the control?",
			"Are the appropriate data points or pieces of information from the source system being used to perform the control?",
			"Can the data be relied upon to perform the control?",
		},
	},
	{
		Attribute: "Roles and Responsibilities",
		Required:  "Do the control owners/performers have defined roles and responsibilities, including independence or segregation of duties? Is the control performed, reviewed, and monitored by sufficient qualified and authorized individuals?",
		Considerations: []string{
			"Consider whether all roles and responsibilities around the control activity are clearly defined.",
			"Does control performer know what is expected of them?",
			"Are the various accountabilities for the control clearly defined? (i.e. who is responsible for each part of the control activity)",
			"Is the control operator sufficiently independent from the process owner in the process requiring maker/checker roles?",
		},
	},
	{
		Attribute: "Reporting",
		Required:  "Does the activity have an established reporting process in place for results and does it include notifying the appropriate delivery stakeholders timely?",
		Considerations: []string{
			"For Controls requiring communication of the outcome of the control activity to fully mitigate the risk, is the control reporting timely to meet the desired objective?",
			"Is the communication being delivered to the correct stakeholders?",
		},
	},
	{
		Attribute: "Escalation",
		Required:  "Does the activity have an established escalation process in place to address any out of tolerance / compliance conditions and does it include notifying the appropriate delivery stakeholders timely?",
		Considerations: []string{
			"Does the control activity have a process in place to escalate items that are deemed to not be in tolerance or that are to be actioned by the business for failure?",
			"Are items tracked and monitored until they are appropriately addressed or actioned?",
			"Consider if the escalation process includes notifying the right stakeholders.",
			"Consider if the escalation is being conducted in a timely manner",
		},
	},
	{
		Attribute: "Sustainability",
		Required:  "Is the control activity built in a manner that is clear & sufficient to allow repeatable execution of the control on an ongoing basis?",
		Considerations: []string{
			"Relative to the complexity of the control, are pertinent details of the control activity documented such that current employees can leverage the documentation as a reference to perform the control?",
			"Does the documentation include enough detail for the control performer or is it written at a very high level and is therefore not likely to be useful as a reference?",
			"Consider whether the control can continue to operate in the event of turnover or a change in processes?",
			"Consider whether the control can be repeatably executed in the case that volume increases",
			"Are there defined measures of sustainability and effectiveness?",
		},
	},
	{
		Attribute: "Verifiability",
		Required:  "Is the activity designed in order to produce & retain appropriate documentation/evidence in order to validate that the control was performed and therefore could be re-performed, if necessary?",
		Considerations: []string{
			"Consider whether a third party can verify that the control was performed",
			"Consider whether appropriate documentation or records are retained. For example, could a third party leverage the data retained and reperform the control?",
		},
	},
}

// BuildPrompt renders the single-attribute analysis prompt. sopText is
// expected to already be capped to the configured prompt length; role
// assignments are embedded as JSON for context.
func BuildPrompt(attr ControlAttribute, sopText string, roles engine.RoleAssignments) (string, error) {
	considerations, err := json.MarshalIndent(attr.Considerations, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal considerations: %w", err)
	}
	if roles == nil {
		roles = engine.RoleAssignments{}
	}
	rolesJSON, err := json.MarshalIndent(roles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal roles: %w", err)
	}

	return fmt.Sprintf(`You are a control testing expert.
Analyze the following SOP and provide precise, professional responses for ONE control attribute. Try to answer all required questions and considerations questions.

Attribute: %s

Required Question:
%s

Consideration Questions:
%s

SOP Text:
"""
%s
"""

Grouped Responsibilities (for context):
%s

Respond only for this attribute with answers to:
- Required Question
- Each Consideration
- SOP Section or line used as Evidence
- A professional Summary Comment
- If no relevant information is found in the SOP for a specific question, you may say: "Related answer not found in the SOP." — but only if the topic is truly not covered at all.
`, attr.Attribute, attr.Required, considerations, sopText, rolesJSON), nil
}

// CapText truncates text to at most n bytes. Prompts carry the head of
// the document; the tail is dropped rather than sampled.
func CapText(text string, n int) string {
	if n <= 0 || len(text) <= n {
		return text
	}
	return text[:n]
}
