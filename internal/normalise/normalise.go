// Package normalise prepares raw file content for chunking. Markdown
// formatting is stripped and DOCX archives are reduced to their paragraph
// text, so chunks and embeddings carry prose, not markup; plain text
// passes through untouched.
package normalise

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Result is a document prepared for ingestion.
type Result struct {
	// Content is the normalised text.
	Content string

	// Metadata describes the source: title and format.
	Metadata map[string]any
}

// File normalises the raw content of a file based on its extension.
func File(path string, data []byte) (Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		content := string(data)
		return Result{
			Content: StripMarkdown(content),
			Metadata: map[string]any{
				"title":  markdownTitle(content, path),
				"format": "markdown",
			},
		}, nil
	case ".docx":
		content, title, err := extractDocx(data)
		if err != nil {
			return Result{}, err
		}
		if title == "" {
			title = titleFromPath(path)
		}
		return Result{
			Content: content,
			Metadata: map[string]any{
				"title":  title,
				"format": "docx",
			},
		}, nil
	default:
		return Result{
			Content: string(data),
			Metadata: map[string]any{
				"title":  titleFromPath(path),
				"format": "plaintext",
			},
		}, nil
	}
}

var (
	reCodeBlock    = regexp.MustCompile("(?s)```[^`]*```")
	reInlineCode   = regexp.MustCompile("`[^`]+`")
	reImage        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	reLink         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	reHeading      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reBlockquote   = regexp.MustCompile(`(?m)^>\s*`)
	reRule         = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	reListMarker   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	reNumberedList = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	reMultiNewline = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown removes common markdown formatting, keeping the prose.
// Code blocks are dropped entirely, links keep their text.
func StripMarkdown(content string) string {
	content = reCodeBlock.ReplaceAllString(content, "")
	content = reInlineCode.ReplaceAllString(content, "")
	content = reImage.ReplaceAllString(content, "")
	content = reLink.ReplaceAllString(content, "$1")
	content = reHeading.ReplaceAllString(content, "")

	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = strings.ReplaceAll(content, "*", "")

	content = reBlockquote.ReplaceAllString(content, "")
	content = reRule.ReplaceAllString(content, "")
	content = reListMarker.ReplaceAllString(content, "")
	content = reNumberedList.ReplaceAllString(content, "")
	content = reMultiNewline.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}

// markdownTitle extracts a title from the first H1 heading, falling back
// to the filename.
func markdownTitle(content, path string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return titleFromPath(path)
}

// titleFromPath derives a readable title from a file path.
func titleFromPath(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
