package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestSnippetFromMatchingHeading(t *testing.T) {
	doc := mustDoc(t, `<body>
<h1>Welcome</h1>
<h2>About Us</h2>
<p>Founded in 2001.</p>
<p>We build engines.</p>
<div>Global offices.</div>
<p>Ignored fourth.</p>
</body>`)

	got := Snippet(doc, []string{"about us"}, 500)
	want := "Founded in 2001. We build engines. Global offices."
	if got != want {
		t.Errorf("Snippet = %q, want %q", got, want)
	}
}

func TestSnippetSkipsHeadingWithEmptyFollowers(t *testing.T) {
	doc := mustDoc(t, `<body>
<h2>Careers</h2><div></div><p> </p><div><img src="x.png"/></div>
<h3>Careers at Acme</h3><p>Open roles in Berlin.</p>
</body>`)

	got := Snippet(doc, []string{"career"}, 500)
	if got != "Open roles in Berlin." {
		t.Errorf("Snippet = %q, want %q", got, "Open roles in Berlin.")
	}
}

func TestSnippetFallsBackToContentContainers(t *testing.T) {
	doc := mustDoc(t, `<body>
<h2>Irrelevant heading</h2>
<article>Contact our support team by phone.</article>
</body>`)

	got := Snippet(doc, []string{"contact", "support"}, 500)
	if got != "Contact our support team by phone." {
		t.Errorf("Snippet = %q", got)
	}
}

func TestSnippetEmptyKeywordsNeverMatch(t *testing.T) {
	doc := mustDoc(t, `<body><h2>About Us</h2><p>Everything.</p></body>`)
	if got := Snippet(doc, nil, 500); got != "" {
		t.Errorf("Snippet = %q, want empty", got)
	}
}

func TestSnippetNoMatchReturnsEmpty(t *testing.T) {
	doc := mustDoc(t, `<body><h2>Products</h2><p>Rocket engines.</p></body>`)
	if got := Snippet(doc, []string{"privacy"}, 500); got != "" {
		t.Errorf("Snippet = %q, want empty", got)
	}
}

func TestSnippetCapsLength(t *testing.T) {
	doc := mustDoc(t, `<body><h2>About Us</h2><p>Founded in 2001 by two engineers.</p></body>`)
	got := Snippet(doc, []string{"about us"}, 10)
	if got != "Founded in" {
		t.Errorf("Snippet = %q, want %q", got, "Founded in")
	}
}

func TestSnippetFromHTML(t *testing.T) {
	html := `<body><h3>Privacy Policy</h3><p>We respect your data.</p></body>`
	got := SnippetFromHTML(html, []string{"privacy"}, 500)
	if got != "We respect your data." {
		t.Errorf("SnippetFromHTML = %q", got)
	}
}
