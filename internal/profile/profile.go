// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package profile loads the user's interest profile from a YAML document
// and answers muted/snoozed topic checks for the filter stage.
package profile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Profile is the structured interest profile. A separate feedback
// collaborator may append to Notes; the pipeline carries them opaquely.
type Profile struct {
	Interests   []string `yaml:"interests"`
	MutedTopics []string `yaml:"muted_topics"`

	// Snoozes maps a topic to its expiry date (YYYY-MM-DD). A blank or
	// unparsable expiry snoozes the topic indefinitely.
	Snoozes map[string]string `yaml:"snoozes"`

	Notes []string `yaml:"notes"`
}

// Load reads the profile document at path. A missing file is not an error;
// Load returns an empty profile.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Profile{}, nil
		}
		return Profile{}, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	return p, nil
}

// Muted reports whether text matches any muted topic (case-insensitive
// substring).
func (p Profile) Muted(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range p.MutedTopics {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// Snoozed reports whether text matches a snoozed topic whose snooze is
// still active on today.
func (p Profile) Snoozed(text string, today time.Time) bool {
	lower := strings.ToLower(text)
	for topic, expiry := range p.Snoozes {
		if topic == "" || !strings.Contains(lower, strings.ToLower(topic)) {
			continue
		}
		if expiry == "" {
			return true
		}
		exp, err := time.Parse("2006-01-02", expiry)
		if err != nil {
			return true
		}
		if !today.After(exp) {
			return true
		}
	}
	return false
}
