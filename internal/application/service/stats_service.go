package service

import (
	"context"
	"sort"

	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/entity"
)

// Bucket is a count for one label
type Bucket struct {
	Label string `json:"label"`
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// TypeStat aggregates one person's requests of one leave type
type TypeStat struct {
	LeaveType entity.LeaveType `json:"leaveType"`
	Count     int              `json:"count"`
	TotalDays int              `json:"totalDays"`
}

// Dashboard summarises every stored request
type Dashboard struct {
	Total        int      `json:"total"`
	Approved     int      `json:"approved"`
	Pending      int      `json:"pending"`
	Staff        []string `json:"staff"`
	ByLeaveType  []Bucket `json:"byLeaveType"`
	ByDepartment []Bucket `json:"byDepartment"`
}

// StaffStats summarises one person's requests
type StaffStats struct {
	FullName  string                `json:"fullName"`
	Requests  []entity.LeaveRequest `json:"requests"`
	TotalDays int                   `json:"totalDays"`
	Approved  int                   `json:"approved"`
	ByType    []TypeStat            `json:"byType"`
}

// StatsService computes dashboard figures
type StatsService interface {
	Dashboard(ctx context.Context) *Dashboard
	Staff(ctx context.Context, fullName string) *StaffStats
}

type statsServiceImpl struct {
	store port.LeaveStore
}

// NewStatsService creates a new StatsService
func NewStatsService(store port.LeaveStore) StatsService {
	return &statsServiceImpl{store: store}
}

// Dashboard counts all requests. Buckets follow the order of the closed
// sets and empty buckets are left out.
func (s *statsServiceImpl) Dashboard(ctx context.Context) *Dashboard {
	leaves := s.store.FetchAll(ctx, false)

	d := &Dashboard{
		Total:        len(leaves),
		Staff:        []string{},
		ByLeaveType:  []Bucket{},
		ByDepartment: []Bucket{},
	}

	staff := make(map[string]struct{})
	typeCounts := make(map[entity.LeaveType]int)
	deptCounts := make(map[entity.Department]int)
	for _, leave := range leaves {
		switch leave.Status {
		case entity.StatusApproved:
			d.Approved++
		case entity.StatusPending:
			d.Pending++
		}
		if _, seen := staff[leave.FullName]; !seen {
			staff[leave.FullName] = struct{}{}
			d.Staff = append(d.Staff, leave.FullName)
		}
		typeCounts[leave.LeaveType]++
		deptCounts[leave.Department]++
	}
	sort.Strings(d.Staff)

	for _, t := range entity.AllLeaveTypes() {
		if n := typeCounts[t]; n > 0 {
			d.ByLeaveType = append(d.ByLeaveType, Bucket{Label: t.Label(), Code: t.Code(), Count: n})
		}
	}
	for _, dept := range entity.AllDepartments() {
		if n := deptCounts[dept]; n > 0 {
			d.ByDepartment = append(d.ByDepartment, Bucket{Label: dept.Label(), Code: dept.Code(), Count: n})
		}
	}

	return d
}

// Staff returns the requests filed under exactly fullName, newest first
func (s *statsServiceImpl) Staff(ctx context.Context, fullName string) *StaffStats {
	stats := &StaffStats{
		FullName: fullName,
		Requests: []entity.LeaveRequest{},
		ByType:   []TypeStat{},
	}

	byType := make(map[entity.LeaveType]*TypeStat)
	for _, leave := range s.store.FetchAll(ctx, false) {
		if leave.FullName != fullName {
			continue
		}
		stats.Requests = append(stats.Requests, leave)
		stats.TotalDays += leave.TotalDays
		if leave.Status == entity.StatusApproved {
			stats.Approved++
		}

		ts, ok := byType[leave.LeaveType]
		if !ok {
			ts = &TypeStat{LeaveType: leave.LeaveType}
			byType[leave.LeaveType] = ts
		}
		ts.Count++
		ts.TotalDays += leave.TotalDays
	}
	sortNewestFirst(stats.Requests)

	for _, t := range entity.AllLeaveTypes() {
		if ts, ok := byType[t]; ok {
			stats.ByType = append(stats.ByType, *ts)
		}
	}

	return stats
}
