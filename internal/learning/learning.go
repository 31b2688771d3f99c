// Package learning loads project-management learning content. Topics come
// from Markdown files under a content directory when present, with
// built-in defaults otherwise, so the learning mode always has something
// to teach.
package learning

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmlens/pmlens/internal/mdparse"
	"github.com/pmlens/pmlens/internal/types"
)

// Topic is one unit of learning content.
type Topic struct {
	Key             string   `json:"key"`
	Title           string   `json:"title"`
	Overview        string   `json:"overview"`
	KeyConcepts     []string `json:"key_concepts,omitempty"`
	BestPractices   []string `json:"best_practices,omitempty"`
	CommonPitfalls  []string `json:"common_pitfalls,omitempty"`
	ToolsTechniques []string `json:"tools_techniques,omitempty"`
	References      []string `json:"references,omitempty"`
	BuiltIn         bool     `json:"built_in"`
}

// topicForType maps a missing document type to the topic that teaches it.
var topicForType = map[types.DocumentType]string{
	types.DocCharter:             "charter_development",
	types.DocRiskRegister:        "risk_management",
	types.DocStakeholderRegister: "stakeholder_analysis",
	types.DocWBS:                 "work_breakdown_structure",
	types.DocRoadmap:             "roadmap_planning",
	types.DocProjectSchedule:     "schedule_management",
}

// TopicsForMissing returns the topic keys covering the missing document
// types, in the order given.
func TopicsForMissing(missing []types.DocumentType) []string {
	var keys []string
	for _, dt := range missing {
		if key, ok := topicForType[dt]; ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		keys = []string{"project_management_fundamentals"}
	}
	return keys
}

// Loader resolves topic keys to content.
type Loader struct {
	// ContentDir is searched for <key>.md topic files. Empty or missing
	// directories fall back to the built-in topics.
	ContentDir string
}

func NewLoader(contentDir string) *Loader {
	return &Loader{ContentDir: contentDir}
}

// Load resolves each key to a topic, preferring content files over the
// built-in defaults.
func (l *Loader) Load(keys []string) []Topic {
	topics := make([]Topic, 0, len(keys))
	for _, key := range keys {
		if t, ok := l.loadFile(key); ok {
			topics = append(topics, t)
			continue
		}
		topics = append(topics, defaultTopic(key))
	}
	return topics
}

func (l *Loader) loadFile(key string) (Topic, bool) {
	if l.ContentDir == "" {
		return Topic{}, false
	}
	path := filepath.Join(l.ContentDir, key+".md")
	if _, err := os.Stat(path); err != nil {
		return Topic{}, false
	}
	doc, err := mdparse.ParseFile(path)
	if err != nil {
		return Topic{}, false
	}

	t := Topic{Key: key, Title: titleForKey(key)}
	if doc.Title != "" {
		t.Title = doc.Title
	}
	for _, section := range doc.Sections {
		header := strings.ToLower(strings.NewReplacer(" ", "_", "-", "_").Replace(section.Title))
		if section.Level == 1 && !strings.Contains(header, "overview") {
			// The H1 section spans the whole file; subsections carry the
			// structured parts.
			continue
		}
		switch {
		case strings.Contains(header, "concept"):
			t.KeyConcepts = sectionItems(section)
		case strings.Contains(header, "practice"):
			t.BestPractices = sectionItems(section)
		case strings.Contains(header, "pitfall"):
			t.CommonPitfalls = sectionItems(section)
		case strings.Contains(header, "tool"), strings.Contains(header, "technique"):
			t.ToolsTechniques = sectionItems(section)
		case strings.Contains(header, "reference"), strings.Contains(header, "resource"):
			t.References = sectionItems(section)
		case strings.Contains(header, "overview") || t.Overview == "":
			t.Overview = section.Content
		}
	}
	if t.Overview == "" && len(t.KeyConcepts) == 0 {
		return Topic{}, false
	}
	return t, true
}

// sectionItems returns the section's bullet items, or its lines when it
// has no bullets.
func sectionItems(section mdparse.Section) []string {
	var items []string
	for _, line := range strings.Split(section.Content, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "- "); ok {
			items = append(items, after)
		} else if after, ok := strings.CutPrefix(line, "* "); ok {
			items = append(items, after)
		}
	}
	if items == nil {
		for _, line := range strings.Split(section.Content, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
	}
	return items
}

func titleForKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func defaultTopic(key string) Topic {
	if t, ok := builtinTopics[key]; ok {
		t.Key = key
		t.BuiltIn = true
		return t
	}
	return Topic{
		Key:     key,
		Title:   titleForKey(key),
		Overview: fmt.Sprintf("%s is an important project management practice. "+
			"Review PMI guidance and your organization's standards for details.", titleForKey(key)),
		BuiltIn: true,
	}
}

// QuickTips are short reminders shown alongside the curriculum.
func QuickTips() []string {
	return []string{
		"Start every project with a signed charter, however short.",
		"Review the risk register at least once per sprint or reporting cycle.",
		"Map stakeholders by influence and interest before planning communications.",
		"Break work down until each package fits inside one reporting period.",
		"Keep the roadmap visible; stale timelines erode trust fast.",
	}
}

var builtinTopics = map[string]Topic{
	"charter_development": {
		Title:    "Charter Development",
		Overview: "The project charter formally authorizes the project and names its objectives, scope boundaries, and success criteria.",
		KeyConcepts: []string{
			"Business case and project justification",
			"Measurable objectives and success criteria",
			"High-level scope and exclusions",
			"Sponsor authority and project manager assignment",
		},
		BestPractices: []string{
			"Keep the charter short enough that sponsors actually read it",
			"State what the project will not do",
			"Get explicit sign-off before planning starts",
		},
		CommonPitfalls: []string{
			"Treating the charter as a formality and never revisiting it",
			"Vague objectives that cannot be verified at closeout",
		},
	},
	"risk_management": {
		Title:    "Risk Management",
		Overview: "Risk management identifies, analyzes, and responds to project risks throughout the project lifecycle.",
		KeyConcepts: []string{
			"Risk identification and assessment",
			"Probability and impact analysis",
			"Risk response strategies (avoid, mitigate, transfer, accept)",
			"Risk monitoring and control",
		},
		BestPractices: []string{
			"Conduct regular risk assessments",
			"Maintain a comprehensive risk register",
			"Involve stakeholders in risk identification",
			"Develop contingency plans for high-priority risks",
		},
		CommonPitfalls: []string{
			"Ignoring low-probability, high-impact risks",
			"Failing to update risk assessments regularly",
			"Not communicating risks to stakeholders",
		},
	},
	"stakeholder_analysis": {
		Title:    "Stakeholder Analysis",
		Overview: "Stakeholder analysis identifies the people affected by the project and plans how to engage them effectively.",
		KeyConcepts: []string{
			"Stakeholder identification and analysis",
			"Influence and interest mapping",
			"Communication planning",
			"Engagement strategies",
		},
		BestPractices: []string{
			"Create a comprehensive stakeholder register",
			"Revisit the influence/interest grid as the project evolves",
			"Tailor communication frequency to each quadrant",
		},
		CommonPitfalls: []string{
			"Engaging only the loudest stakeholders",
			"Ignoring low-interest but high-influence parties",
		},
	},
	"work_breakdown_structure": {
		Title:    "Work Breakdown Structure",
		Overview: "The WBS decomposes the full project scope into deliverable-oriented work packages that can be estimated and tracked.",
		KeyConcepts: []string{
			"Deliverable-oriented decomposition",
			"The 100% rule",
			"Work packages and control accounts",
			"WBS dictionary",
		},
		BestPractices: []string{
			"Decompose by deliverables, not by department",
			"Stop decomposing when packages are estimable and assignable",
			"Give every element a unique outline code",
		},
		CommonPitfalls: []string{
			"Mixing activities and deliverables in the same level",
			"Work that appears in no WBS element",
		},
	},
	"roadmap_planning": {
		Title:    "Roadmap Planning",
		Overview: "A roadmap communicates milestones, phases, and target dates at a level stakeholders can absorb at a glance.",
		KeyConcepts: []string{
			"Milestones versus activities",
			"Phase gates and releases",
			"Dependency-driven sequencing",
		},
		BestPractices: []string{
			"Anchor the roadmap to a small number of meaningful milestones",
			"Show date confidence, not just dates",
			"Update the roadmap whenever scope or priorities shift",
		},
		CommonPitfalls: []string{
			"Roadmaps that are really task lists",
			"Publishing dates nobody believes",
		},
	},
	"schedule_management": {
		Title:    "Schedule Management",
		Overview: "Schedule management sequences the work, estimates durations, and tracks actuals against the baseline.",
		KeyConcepts: []string{
			"Critical path method",
			"Schedule baselines and variance",
			"Leads, lags, and dependencies",
		},
		BestPractices: []string{
			"Baseline before execution starts",
			"Track variance weekly and re-forecast honestly",
		},
		CommonPitfalls: []string{
			"Padding every estimate instead of managing risk explicitly",
			"Leaving the schedule unmaintained after kickoff",
		},
	},
	"project_management_fundamentals": {
		Title:    "Project Management Fundamentals",
		Overview: "Core practices every project needs: a charter, a plan, visible risks, engaged stakeholders, and honest status reporting.",
		KeyConcepts: []string{
			"The triple constraint: scope, schedule, cost",
			"Progressive elaboration",
			"Definition of done",
		},
		BestPractices: []string{
			"Write things down; memory is not a plan",
			"Report status honestly, especially when it is bad",
		},
	},
}
