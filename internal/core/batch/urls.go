package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultURLs is the demo batch used when no URL file is given.
var DefaultURLs = []string{
	"https://www.techcrunch.com",
	"https://www.healthline.com",
	"https://www.tesla.com",
	"https://www.nike.com",
	"https://www.zendesk.com",
	"https://www.ibm.com",
	"https://www.adobe.com",
	"https://www.intel.com",
	"https://www.forbes.com",
	"https://www.udemy.com",
}

// LoadURLs reads one URL per line, skipping blanks and # comments.
func LoadURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening URL file: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading URL file: %w", err)
	}
	return urls, nil
}
