package domain

// ActionName identifies a follow-up the assistant can perform.
type ActionName string

const (
	ActionResearchCVE    ActionName = "research_cve"
	ActionGenerateScript ActionName = "generate_script"
	ActionDraftComment   ActionName = "draft_comment"
	ActionCreateFile     ActionName = "create_file"
	ActionPostComment    ActionName = "post_comment"
	ActionWritePlan      ActionName = "write_plan"
)

// Action is a suggested operation with its parameters.
type Action struct {
	Name   ActionName     `json:"name"`
	Params map[string]any `json:"params"`
}

// ActionSuggestion bundles a message with the actions offered alongside it.
type ActionSuggestion struct {
	Message string   `json:"message"`
	Actions []Action `json:"actions"`
}

// Result reports the outcome of a performed action.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// CVEDetails is the research record behind a remediation brief.
type CVEDetails struct {
	CVEID              string   `json:"cve_id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Severity           string   `json:"severity"`
	AffectedComponents []string `json:"affected_components"`
	AffectedVersions   []string `json:"affected_versions"`
	Mitigation         string   `json:"mitigation,omitempty"`
	Remediation        string   `json:"remediation,omitempty"`
	TestSteps          []string `json:"test_steps"`
	References         []string `json:"references"`
}

// Script is a generated helper file.
type Script struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}
