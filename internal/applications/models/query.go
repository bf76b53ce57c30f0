package models

import (
	"strings"

	"hireme/pkg/platform/pagination"
)

const (
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortStatus    = "status"
)

var SortFields = []string{SortCreatedAt, SortUpdatedAt, SortStatus}

// ListQuery selects active applications. An empty Status means every status.
type ListQuery struct {
	Status Status
	Page   pagination.Params
	Sort   pagination.Sort
}

// Includes reports whether a passes the activity and status filters.
func (q ListQuery) Includes(a *Application) bool {
	return a.IsActive && (q.Status == "" || a.Status == q.Status)
}

// ParseStatusFilter maps the "status" query value to a filter; "" and "all"
// mean no filter.
func ParseStatusFilter(raw string) (Status, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return "", true
	}
	s := Status(raw)
	return s, s.IsValid()
}

type Page struct {
	Applications []*Application
	Total        int
}

type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Statistics summarizes an employer's active applications.
type Statistics struct {
	StatusCounts      []StatusCount `json:"statusCounts"`
	TotalApplications int           `json:"totalApplications"`
}

// NewStatistics orders counts by pipeline stage and drops empty stages.
func NewStatistics(counts map[Status]int) Statistics {
	stats := Statistics{StatusCounts: []StatusCount{}}
	for _, s := range Statuses {
		if n := counts[s]; n > 0 {
			stats.StatusCounts = append(stats.StatusCounts, StatusCount{Status: s, Count: n})
			stats.TotalApplications += n
		}
	}
	return stats
}

// Less orders a before b under sort, newest first on ties.
func Less(a, b *Application, sort pagination.Sort) bool {
	var cmp int
	switch sort.Field {
	case SortUpdatedAt:
		cmp = a.UpdatedAt.Compare(b.UpdatedAt)
	case SortStatus:
		cmp = strings.Compare(string(a.Status), string(b.Status))
	default:
		cmp = a.CreatedAt.Compare(b.CreatedAt)
	}
	if cmp == 0 {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
	if sort.Desc {
		return cmp > 0
	}
	return cmp < 0
}
