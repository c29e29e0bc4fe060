package analyze

import (
	"encoding/json"
	"fmt"

	"github.com/SuryaYadav707/Article-Analyzer/internal/core/classify"
)

// Result is one analyzed URL in its wire shape. Field order and key
// spelling are part of the output contract; Errors is null on success.
type Result struct {
	URL       string    `json:"URL"`
	SiteType  string    `json:"site_type"`
	Extracted string    `json:"extracted_web_content"`
	Content   []Section `json:"content"`
	Errors    *string   `json:"errors"`
}

// Failed reports whether this result carries an error instead of content.
func (r *Result) Failed() bool {
	return r != nil && r.Errors != nil
}

// ErrorResult builds the degraded result for a URL that could not be
// analyzed. The batch keeps going; the failure travels in the output.
func ErrorResult(url, message string) *Result {
	return &Result{
		URL:      url,
		SiteType: classify.SiteTypeUnknown,
		Content:  []Section{},
		Errors:   &message,
	}
}

// Section is one category entry. It marshals as a single-key object, the
// category name mapping to its links and snippet:
//
//	{"About Us": {"links": [...], "text": "..."}}
type Section struct {
	Category string
	Links    []string
	Text     string
}

type sectionBody struct {
	Links []string `json:"links"`
	Text  string   `json:"text"`
}

func (s Section) MarshalJSON() ([]byte, error) {
	links := s.Links
	if links == nil {
		links = []string{}
	}
	return json.Marshal(map[string]sectionBody{
		s.Category: {Links: links, Text: s.Text},
	})
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var m map[string]sectionBody
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("section must hold exactly one category, got %d", len(m))
	}
	for category, body := range m {
		s.Category = category
		s.Links = body.Links
		s.Text = body.Text
	}
	return nil
}
