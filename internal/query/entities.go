package query

import (
	"regexp"
	"strings"

	"github.com/jediamps/ZapSync/internal/normalize"
)

// Closed reference lists from the academic file corpus the models were
// trained on. Matching is case-insensitive substring search over the
// query-grammar normalized forms of both sides, so punctuation differences
// ("Dr Partey" vs "Dr. Partey") never prevent a match.
var (
	knownCourses = []string{
		"IT Fundamentals",
		"Calculus I",
		"African History",
		"Programming Basics",
		"Data Structures",
		"Database Systems",
		"Operating Systems",
		"Computer Networks",
	}

	knownLecturers = []string{
		"Dr. Gadaafi",
		"Dr. Amoako",
		"Prof. Mensah",
		"Mrs. Nyarko",
		"Dr. Partey",
	}

	knownSemesters = []string{
		"Fall 2023",
		"Spring 2024",
		"Summer 2024",
	}
)

// fileTypeDisplay maps declared extensions to the display names users search
// by. Order fixes the scan order of matches.
var fileTypeDisplay = []struct {
	keyword string
	display string
}{
	{"pdf", "PDF"},
	{"docx", "DOCX"},
	{"pptx", "PPTX"},
	{"xlsx", "XLSX"},
	{"csv", "CSV"},
	{"txt", "TXT"},
	{"zip", "ZIP"},
}

// weekPattern recognizes "week <number>"; only the first match is taken
var weekPattern = regexp.MustCompile(`week\s*(\d+)`)

// matchReferenceLists scans the normalized query against every closed list.
// Matches keep list scan order and are not deduplicated.
func matchReferenceLists(normalized string) EntitySet {
	var entities EntitySet

	for _, course := range knownCourses {
		if containsNormalized(normalized, course) {
			entities.Courses = append(entities.Courses, course)
		}
	}

	for _, lecturer := range knownLecturers {
		if containsNormalized(normalized, lecturer) {
			entities.Lecturers = append(entities.Lecturers, lecturer)
		}
	}

	for _, ft := range fileTypeDisplay {
		if strings.Contains(normalized, ft.keyword) {
			entities.FileTypes = append(entities.FileTypes, ft.display)
		}
	}

	if m := weekPattern.FindStringSubmatch(normalized); m != nil {
		entities.Weeks = append(entities.Weeks, "Week "+m[1])
	}

	// semesters match on season keyword so "fall notes" still resolves to
	// the trained semester name
	for _, semester := range knownSemesters {
		season := strings.ToLower(strings.Fields(semester)[0])
		if containsNormalized(normalized, semester) || strings.Contains(normalized, season) {
			entities.Semesters = append(entities.Semesters, semester)
		}
	}

	return entities
}

// containsNormalized reports whether the already-normalized query contains
// the query-grammar normalization of candidate.
func containsNormalized(normalized, candidate string) bool {
	needle := normalize.Query(candidate)
	return needle != "" && strings.Contains(normalized, needle)
}
