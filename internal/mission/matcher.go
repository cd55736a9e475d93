// Package mission owns mission content and lifecycle: validating authored
// definitions, matching terminal commands to steps, advancing the
// Locked -> Active -> Completed state machine, and generating procedural
// and daily content.
package mission

import (
	"strings"

	"github.com/hackersim/backend/internal/state"
)

// commandKeywords binds each terminal command to the vocabulary mission
// steps use for it. Matching is by content, not by step id: authors can
// write new missions without wiring steps to commands, at the cost of the
// occasional ambiguous step (a step mentioning "password" satisfies both
// decrypt and bruteforce — each command only searches its own set).
var commandKeywords = map[string][]string{
	"scan":       {"scan", "locate", "network", "traffic", "ports", "firewall", "monitor"},
	"connect":    {"connect", "access", "session", "remote", "server"},
	"decrypt":    {"decrypt", "cipher", "encrypted", "crack", "hash", "password"},
	"bruteforce": {"bruteforce", "brute", "force", "credentials", "password"},
	"bypass":     {"bypass", "evade", "intrusion", "defense", "slip"},
	"inject":     {"inject", "payload", "exploit", "vulnerability"},
	"download":   {"download", "exfiltrate", "extract", "files", "data"},
	"trace":      {"trace", "route", "origin", "track", "source"},
}

// Keywords returns the keyword set for a command, or nil if the command has
// no mission vocabulary.
func Keywords(cmd string) []string {
	return commandKeywords[strings.ToLower(cmd)]
}

// Match identifies one step satisfied by a command.
type Match struct {
	MissionID string `json:"missionId"`
	StepID    string `json:"stepId"`
}

// FindMatches scans the incomplete steps of every active mission for text
// containing at least one of the command's keywords (case-insensitive).
// All matches are returned, across steps and missions, not just the first.
func FindMatches(cmd string, missions []state.Mission) []Match {
	keywords := Keywords(cmd)
	if len(keywords) == 0 {
		return nil
	}

	var matches []Match
	for _, m := range missions {
		if m.Status != state.StatusActive {
			continue
		}
		for _, s := range m.Steps {
			if s.Completed {
				continue
			}
			text := strings.ToLower(s.Text)
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					matches = append(matches, Match{MissionID: m.ID, StepID: s.ID})
					break
				}
			}
		}
	}
	return matches
}
