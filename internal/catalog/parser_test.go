package catalog

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedTopics int
		expectedName   string
		expectedNotes  string
	}{
		{
			name:           "single topic with notes",
			input:          "## Arrhythmias\nAF, flutter, blocks.",
			expectedTopics: 1,
			expectedName:   "Arrhythmias",
			expectedNotes:  "AF, flutter, blocks.",
		},
		{
			name: "top heading is ignored",
			input: `# Cardiology plan

## Heart failure
HFrEF vs HFpEF.
`,
			expectedTopics: 1,
			expectedName:   "Heart failure",
			expectedNotes:  "HFrEF vs HFpEF.",
		},
		{
			name: "multiline notes",
			input: `## Valvular disease
Aortic stenosis.
Mitral regurgitation.
`,
			expectedTopics: 1,
			expectedName:   "Valvular disease",
			expectedNotes:  "Aortic stenosis.\nMitral regurgitation.",
		},
		{
			name: "two topics",
			input: `## First topic
notes one

## Second topic
notes two
`,
			expectedTopics: 2,
		},
		{
			name: "deeper heading ends notes without starting a topic",
			input: `## Pericarditis
Classic ECG stages.
### Details
this line belongs to no topic
`,
			expectedTopics: 1,
			expectedName:   "Pericarditis",
			expectedNotes:  "Classic ECG stages.",
		},
		{
			name:           "topic without notes",
			input:          "## Endocarditis",
			expectedTopics: 1,
			expectedName:   "Endocarditis",
			expectedNotes:  "",
		},
		{
			name:           "empty heading is skipped",
			input:          "##   \ndangling line",
			expectedTopics: 0,
		},
		{
			name:           "no topics, just text",
			input:          "This file has no headings.",
			expectedTopics: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			topics, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(topics) != tc.expectedTopics {
				t.Fatalf("Expected %d topics, but got %d", tc.expectedTopics, len(topics))
			}

			if tc.expectedTopics == 1 {
				topic := topics[0]
				if topic.Name != tc.expectedName {
					t.Errorf("Expected Name to be '%s', but got '%s'", tc.expectedName, topic.Name)
				}
				if topic.Notes != tc.expectedNotes {
					t.Errorf("Expected Notes to be '%s', but got '%s'", tc.expectedNotes, topic.Notes)
				}
			}
		})
	}
}
