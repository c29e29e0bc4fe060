package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
)

// SystemPrompts holds the chat templates for the two classification kinds.
// Label vocabularies are supplied by the caller at format time, so the
// templates stay decoupled from the classification domain.
type SystemPrompts struct {
	Category prompt.ChatTemplate
	SiteType prompt.ChatTemplate
}

// NewSystemPrompts creates and initializes all prompt templates.
func NewSystemPrompts() *SystemPrompts {
	sp := &SystemPrompts{}
	sp.initializePrompts()
	return sp
}

func (sp *SystemPrompts) initializePrompts() {
	sp.Category = sp.createCategoryTemplate()
	sp.SiteType = sp.createSiteTypeTemplate()
}

// TemplateFor returns the template for a classification kind. Unknown kinds
// fall back to the category template.
func (sp *SystemPrompts) TemplateFor(kind string) prompt.ChatTemplate {
	switch kind {
	case "site_type":
		return sp.SiteType
	default:
		return sp.Category
	}
}
