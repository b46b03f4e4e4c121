package normalise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_Markdown(t *testing.T) {
	content := "# Expense Policy\n\nClaims go through **Concur** within `30` days.\n\n- keep receipts\n- submit monthly\n"

	result, err := File("docs/expense-policy.md", []byte(content))
	require.NoError(t, err)
	require.NotNil(t, result.Metadata)
	assert.Equal(t, "Expense Policy", result.Metadata["title"])
	assert.Equal(t, "markdown", result.Metadata["format"])
	assert.Contains(t, result.Content, "Claims go through Concur")
	assert.Contains(t, result.Content, "keep receipts")
	assert.NotContains(t, result.Content, "**")
	assert.NotContains(t, result.Content, "`30`")
}

func TestFile_PlaintextPassesThrough(t *testing.T) {
	content := "Plain notes.\nNothing to strip here."

	result, err := File("notes/meeting_notes-2026.txt", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, content, result.Content)
	assert.Equal(t, "meeting notes 2026", result.Metadata["title"])
	assert.Equal(t, "plaintext", result.Metadata["format"])
}

func TestFile_ExtensionCaseInsensitive(t *testing.T) {
	result, err := File("README.MD", []byte("# Readme\n\nBody text."))
	require.NoError(t, err)
	assert.Equal(t, "markdown", result.Metadata["format"])
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "headings",
			in:   "# Top\n\n## Sub\n\nBody.",
			want: "Top\n\nSub\n\nBody.",
		},
		{
			name: "links keep their text",
			in:   "See [the handbook](https://example.com/handbook) for details.",
			want: "See the handbook for details.",
		},
		{
			name: "images dropped",
			in:   "Before ![diagram](diagram.png) after.",
			want: "Before  after.",
		},
		{
			name: "code blocks dropped",
			in:   "Intro.\n\n```\nsecret = 42\n```\n\nOutro.",
			want: "Intro.\n\nOutro.",
		},
		{
			name: "emphasis",
			in:   "This is **bold**, this is *italic*, this is __also bold__.",
			want: "This is bold, this is italic, this is also bold.",
		},
		{
			name: "blockquotes and rules",
			in:   "> quoted line\n\n---\n\nplain line",
			want: "quoted line\n\nplain line",
		},
		{
			name: "list markers",
			in:   "- one\n- two\n1. three\n2. four",
			want: "one\ntwo\nthree\nfour",
		},
		{
			name: "collapses blank runs",
			in:   "a\n\n\n\n\nb",
			want: "a\n\nb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkdown(tt.in))
		})
	}
}

func TestMarkdownTitle_FallsBackToFilename(t *testing.T) {
	result, err := File("docs/untitled-draft.md", []byte("No heading here, just text."))
	require.NoError(t, err)
	assert.Equal(t, "untitled draft", result.Metadata["title"])
}
