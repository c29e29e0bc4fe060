package classify

import (
	"strings"
	"testing"
)

func TestFirstJSONObjectFromProse(t *testing.T) {
	raw := `Sure! {"category": "news"} Hope that helps!`
	got, err := FirstJSONObject(raw)
	if err != nil {
		t.Fatalf("FirstJSONObject(%q) error: %v", raw, err)
	}
	if got != `{"category": "news"}` {
		t.Errorf("FirstJSONObject = %q, want %q", got, `{"category": "news"}`)
	}
}

func TestFirstJSONObjectHandlesNestedBraces(t *testing.T) {
	raw := `prefix {"outer": {"inner": [1, 2]}, "k": "v"} suffix`
	got, err := FirstJSONObject(raw)
	if err != nil {
		t.Fatalf("FirstJSONObject error: %v", err)
	}
	if got != `{"outer": {"inner": [1, 2]}, "k": "v"}` {
		t.Errorf("FirstJSONObject = %q", got)
	}
}

func TestFirstJSONObjectIgnoresBracesInsideStrings(t *testing.T) {
	raw := `{"note": "use {curly} braces", "esc": "quote \" and brace }"}`
	got, err := FirstJSONObject(raw)
	if err != nil {
		t.Fatalf("FirstJSONObject error: %v", err)
	}
	if got != raw {
		t.Errorf("FirstJSONObject = %q, want whole input", got)
	}
}

func TestFirstJSONObjectStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"site_type\": \"blog\"}\n```"
	got, err := FirstJSONObject(raw)
	if err != nil {
		t.Fatalf("FirstJSONObject error: %v", err)
	}
	if got != `{"site_type": "blog"}` {
		t.Errorf("FirstJSONObject = %q", got)
	}
}

func TestFirstJSONObjectErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no object", "the page is about sports"},
		{"unbalanced", `{"categories": ["About Us"`},
		{"not json", `{this is not json}`},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FirstJSONObject(tc.raw); err == nil {
				t.Errorf("FirstJSONObject(%q) = nil error, want error", tc.raw)
			}
		})
	}
}

func TestParseLabelsCanonicalizesCategories(t *testing.T) {
	raw := `{"categories": ["about us", "CONTACT/SUPPORT", "About Us"]}`
	labels, err := ParseLabels(KindCategory, raw)
	if err != nil {
		t.Fatalf("ParseLabels error: %v", err)
	}
	want := []string{"About Us", "Contact/Support"}
	if len(labels) != len(want) {
		t.Fatalf("labels = %v, want %v", labels, want)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestParseLabelsRejectsUnknownCategory(t *testing.T) {
	raw := `{"categories": ["About Us", "Gossip"]}`
	if _, err := ParseLabels(KindCategory, raw); err == nil {
		t.Error("ParseLabels accepted unknown category, want error")
	}
}

func TestParseLabelsAllowsEmptyCategories(t *testing.T) {
	labels, err := ParseLabels(KindCategory, `{"categories": []}`)
	if err != nil {
		t.Fatalf("ParseLabels error: %v", err)
	}
	if len(labels) != 0 {
		t.Errorf("labels = %v, want empty", labels)
	}
}

func TestParseLabelsRepairsSingularCategoryKey(t *testing.T) {
	labels, err := ParseLabels(KindCategory, `{"category": "Careers/Jobs"}`)
	if err != nil {
		t.Fatalf("ParseLabels error: %v", err)
	}
	if len(labels) != 1 || labels[0] != "Careers/Jobs" {
		t.Errorf("labels = %v, want [Careers/Jobs]", labels)
	}
}

func TestParseLabelsSiteType(t *testing.T) {
	labels, err := ParseLabels(KindSiteType, `{"site_type": "E-Commerce"}`)
	if err != nil {
		t.Fatalf("ParseLabels error: %v", err)
	}
	if len(labels) != 1 || labels[0] != "e-commerce" {
		t.Errorf("labels = %v, want [e-commerce]", labels)
	}
}

func TestParseLabelsSiteTypeRejectsUnknown(t *testing.T) {
	if _, err := ParseLabels(KindSiteType, `{"site_type": "parody"}`); err == nil {
		t.Error("ParseLabels accepted unknown site type, want error")
	}
	if _, err := ParseLabels(KindSiteType, `{"wrong_key": "news"}`); err == nil {
		t.Error("ParseLabels accepted missing site_type key, want error")
	}
}

func TestParseLabelsLongProseAroundObject(t *testing.T) {
	raw := strings.Repeat("chatter ", 50) + `{"site_type": "forum"}` + strings.Repeat(" more", 20)
	labels, err := ParseLabels(KindSiteType, raw)
	if err != nil {
		t.Fatalf("ParseLabels error: %v", err)
	}
	if len(labels) != 1 || labels[0] != "forum" {
		t.Errorf("labels = %v, want [forum]", labels)
	}
}
