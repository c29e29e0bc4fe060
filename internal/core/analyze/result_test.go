package analyze

import (
	"encoding/json"
	"testing"
)

func TestSectionMarshalShape(t *testing.T) {
	section := Section{
		Category: "About Us",
		Links:    []string{"https://acme.test/about"},
		Text:     "Founded in 2001.",
	}
	data, err := json.Marshal(section)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"About Us":{"links":["https://acme.test/about"],"text":"Founded in 2001."}}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestSectionMarshalNilLinks(t *testing.T) {
	data, err := json.Marshal(Section{Category: "Other"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Other":{"links":[],"text":""}}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}
}

func TestSectionRoundTrip(t *testing.T) {
	in := Section{Category: "Careers/Jobs", Links: []string{"https://acme.test/jobs"}, Text: "We are hiring."}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Section
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Category != in.Category || out.Text != in.Text || len(out.Links) != 1 || out.Links[0] != in.Links[0] {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestSectionUnmarshalRejectsMultipleKeys(t *testing.T) {
	raw := `{"About Us":{"links":[],"text":""},"Other":{"links":[],"text":""}}`
	var s Section
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		t.Error("unmarshal accepted two categories, want error")
	}
}

func TestResultMarshalSuccessHasNullErrors(t *testing.T) {
	result := &Result{
		URL:       "https://acme.test/",
		SiteType:  "news",
		Extracted: "body text",
		Content:   []Section{{Category: "Other"}},
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"URL":"https://acme.test/","site_type":"news","extracted_web_content":"body text",` +
		`"content":[{"Other":{"links":[],"text":""}}],"errors":null}`
	if string(data) != want {
		t.Errorf("marshal = %s\nwant     %s", data, want)
	}
	if result.Failed() {
		t.Error("Failed() = true for success result")
	}
}

func TestErrorResult(t *testing.T) {
	result := ErrorResult("https://acme.test/broken", "fetch failed: connection refused")
	if !result.Failed() {
		t.Fatal("Failed() = false, want true")
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"URL":"https://acme.test/broken","site_type":"unknown","extracted_web_content":"",` +
		`"content":[],"errors":"fetch failed: connection refused"}`
	if string(data) != want {
		t.Errorf("marshal = %s\nwant     %s", data, want)
	}
}
