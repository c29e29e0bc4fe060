package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Following prompt design principles:
// 1. Assign clear roles
// 2. Keep the output contract explicit and machine-parseable
// 3. Use "IMPORTANT" and "ONLY" for critical instructions
// 4. Closed label sets are injected at format time, never hardcoded twice

// createCategoryTemplate builds the content-section classification prompt.
// The response contract is a single JSON object with a "categories" array.
func (sp *SystemPrompts) createCategoryTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are a website content analyst. You classify the sections present in a
web page's text against a fixed category list.

# Critical Requirements
1. **Closed Set**: Only use category names from the provided list, spelled exactly as given
2. **Evidence**: Include a category only when the content clearly signals it
3. **Output Format**: Return ONLY a JSON object of the shape {{"categories": ["...", "..."]}}

**IMPORTANT**: Return ONLY the JSON object. No explanations, no markdown formatting, no additional text.`),

		schema.UserMessage(`**Category List**: {category_list}

**Page Content**:
{content}

Return the matching categories as {{"categories": ["..."]}} only.`),
	)
}

// createSiteTypeTemplate builds the whole-site classification prompt.
// The response contract is a single JSON object with a "site_type" string.
func (sp *SystemPrompts) createSiteTypeTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are a website analyst. You decide what kind of site a page belongs to,
using a fixed list of site types.

# Critical Requirements
1. **Closed Set**: Answer with exactly one type from the provided list, spelled exactly as given
2. **Best Fit**: Pick the single type that best describes the site as a whole
3. **Output Format**: Return ONLY a JSON object of the shape {{"site_type": "..."}}

**IMPORTANT**: Return ONLY the JSON object. No explanations, no markdown formatting, no additional text.`),

		schema.UserMessage(`**Site Type List**: {site_type_list}

**Page Content**:
{content}

Return the best matching type as {{"site_type": "..."}} only.`),
	)
}
