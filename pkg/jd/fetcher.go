// Package jd loads job descriptions from files, URLs or standard input.
package jd

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// StdinArg selects standard input as the job description source.
const StdinArg = "-"

// maxBodyBytes caps how much of a job page is read.
const maxBodyBytes = 5 << 20

// Fetch retrieves job description from file, URL or stdin.
func Fetch(input string) (content string, err error) {
	ctx := context.Background()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	content, err = FetchWithContext(ctx, input)
	return content, err
}

// FetchWithContext retrieves job description with context.
func FetchWithContext(ctx context.Context, input string) (content string, err error) {
	// Check if input is stdin
	if input == StdinArg {
		content, err = ReadAll(os.Stdin)
		if err != nil {
			err = errors.Wrap(err, "failed to read JD from stdin")
		}
		return content, err
	}

	// Check if input is a URL
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch JD from URL: %s", input)
			return content, err
		}
		return content, err
	}

	// Treat as file path
	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch JD from file: %s", input)
		return content, err
	}

	return content, err
}

// ReadAll reads a plain text job description from r.
func ReadAll(r io.Reader) (content string, err error) {
	var data []byte
	data, err = io.ReadAll(r)
	if err != nil {
		err = errors.Wrap(err, "failed to read input")
		return content, err
	}

	content = strings.TrimSpace(string(data))
	if content == "" {
		err = errors.New("input is empty")
		return content, err
	}

	return content, err
}

// fetchFromFile reads job description from a file.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = string(data)
	if strings.TrimSpace(content) == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves job description from a URL.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "lucidum/1.0")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	// Strip markup down to visible text
	content, err = ExtractText(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return content, err
	}

	if content == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

// blockSelector lists elements that end a line of visible text.
const blockSelector = "p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, dt, dd"

// ExtractText returns the visible text of an HTML document, one block per
// line, with scripts and styles removed.
func ExtractText(r io.Reader) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find("script, style, noscript, template, svg, head").Remove()
	doc.Find(blockSelector).AfterHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	lines := strings.Split(root.Text(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			kept = append(kept, line)
		}
	}

	text = strings.Join(kept, "\n")
	return text, err
}
