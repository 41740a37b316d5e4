// Package catalog parses study-plan markdown files into the topic catalog.
// A plan file names its topics with level-two headings; the lines under a
// heading are free-form notes:
//
//	# Cardiology plan
//
//	## Arrhythmias
//	AF, flutter, blocks.
//
//	## Heart failure
package catalog

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/afreitas/revisio/internal/domain"
)

const topicPrefix = "## "

// ParseFile reads a plan file from the given path and extracts its topics.
func ParseFile(path string) ([]domain.Topic, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a plan from an io.Reader and extracts its topics in file
// order. Headings with an empty name and lines outside any topic are
// skipped.
func Parse(r io.Reader) ([]domain.Topic, error) {
	scanner := bufio.NewScanner(r)
	var topics []domain.Topic
	var current *domain.Topic
	var notes []string

	finishTopic := func() {
		if current == nil {
			return
		}
		current.Notes = strings.TrimSpace(strings.Join(notes, "\n"))
		topics = append(topics, *current)
		current = nil
		notes = nil
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, topicPrefix) {
			finishTopic()
			name := strings.TrimSpace(line[len(topicPrefix):])
			if name == "" {
				continue
			}
			current = &domain.Topic{Name: name}
			continue
		}

		// Deeper or top-level headings end the current topic's notes but
		// do not start a new topic.
		if strings.HasPrefix(line, "#") {
			finishTopic()
			continue
		}

		if current != nil {
			notes = append(notes, line)
		}
	}
	finishTopic()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return topics, nil
}
