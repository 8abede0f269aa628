package models

import (
	"regexp"
	"sort"
)

// Priority constants
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Category constants
const (
	CategoryPrivate = "Private"
	CategoryWork    = "Work"
	CategorySchool  = "School"
	CategoryNone    = "No Category"
)

// DeadlinePattern matches the accepted deadline prefix (YYYY-MM-DDTHH:MM).
// Anything after the minute component is carried through untouched so a
// stored deadline round-trips exactly as submitted.
var DeadlinePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}`)

type Task struct {
	ID       int     `json:"id"`
	TaskText string  `json:"taskText"`
	Priority string  `json:"priority"`
	Deadline *string `json:"deadline"`
	Category string  `json:"category"`
	Done     bool    `json:"done"`
}

// ValidPriority reports whether p is one of the fixed priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ValidCategory reports whether c is one of the fixed category values.
func ValidCategory(c string) bool {
	switch c {
	case CategoryPrivate, CategoryWork, CategorySchool, CategoryNone:
		return true
	}
	return false
}

// ValidDeadline reports whether d is an acceptable deadline value.
func ValidDeadline(d string) bool {
	return DeadlinePattern.MatchString(d)
}

// SortKey selects the secondary ordering applied by SortTasks.
type SortKey string

const (
	SortByID       SortKey = "id"
	SortByPriority SortKey = "priority"
	SortByDeadline SortKey = "deadline"
	SortByCategory SortKey = "category"
)

// ParseSortKey validates a sort key supplied by a client.
func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(s) {
	case SortByID, SortByPriority, SortByDeadline, SortByCategory:
		return SortKey(s), true
	}
	return "", false
}

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

var categoryRank = map[string]int{
	CategoryPrivate: 0,
	CategoryWork:    1,
	CategorySchool:  2,
	CategoryNone:    3,
}

// SortTasks orders tasks in place: incomplete tasks before completed ones,
// then by the selected key, with id as the final tie-break. The sort is
// stable so equal elements keep their stored order.
func SortTasks(tasks []Task, key SortKey) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Done != b.Done {
			return !a.Done
		}
		switch key {
		case SortByPriority:
			if priorityRank[a.Priority] != priorityRank[b.Priority] {
				return priorityRank[a.Priority] < priorityRank[b.Priority]
			}
		case SortByDeadline:
			switch {
			case a.Deadline == nil && b.Deadline == nil:
			case a.Deadline == nil:
				return false
			case b.Deadline == nil:
				return true
			case *a.Deadline != *b.Deadline:
				return *a.Deadline < *b.Deadline
			}
		case SortByCategory:
			if categoryRank[a.Category] != categoryRank[b.Category] {
				return categoryRank[a.Category] < categoryRank[b.Category]
			}
		}
		return a.ID < b.ID
	})
}
