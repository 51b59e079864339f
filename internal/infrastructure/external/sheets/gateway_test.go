package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGateway(Config{Endpoint: server.URL, Timeout: 2 * time.Second, Location: bangkok}, nil)
}

func TestList_CoercesRows(t *testing.T) {
	gw := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `[
			{"id": 1698200000000, "fullName": "สมชาย ใจดี", "position": "ครูชำนาญการ",
			 "department": "คณิตศาสตร์", "leaveType": "ลาป่วย",
			 "startDate": "2023-10-24T17:00:00.000Z", "endDate": "2023-10-26",
			 "totalDays": "2", "reason": "ไข้", "contact": "081",
			 "status": "รออนุมัติ", "createdAt": "2023-10-25T02:00:00.000Z"},
			{"id": "abc", "fullName": "สมหญิง", "department": "งานพิเศษ", "leaveType": "ลากิจ",
			 "startDate": "", "endDate": "2023-11-01", "totalDays": "n/a",
			 "address": "กรุงเทพฯ", "status": "อนุมัติ", "createdAt": "yesterday", "note": "ok"}
		]`)
	})

	leaves, err := gw.List(context.Background())
	require.NoError(t, err)
	require.Len(t, leaves, 2)

	first := leaves[0]
	assert.Equal(t, "1698200000000", first.ID)
	assert.Equal(t, entity.DepartmentMath, first.Department)
	assert.Equal(t, entity.LeaveTypeSick, first.LeaveType)
	assert.Equal(t, calendar.MustParseDate("2023-10-25"), first.StartDate)
	assert.Equal(t, calendar.MustParseDate("2023-10-26"), first.EndDate)
	assert.Equal(t, 2, first.TotalDays)
	assert.Equal(t, "", first.Address)
	assert.Equal(t, entity.StatusPending, first.Status)
	assert.Equal(t, time.Date(2023, 10, 25, 2, 0, 0, 0, time.UTC), first.CreatedAt.UTC())

	second := leaves[1]
	assert.Equal(t, "abc", second.ID)
	assert.Equal(t, entity.Department("งานพิเศษ"), second.Department)
	assert.False(t, second.Department.IsValid())
	assert.True(t, second.StartDate.IsZero())
	assert.Equal(t, 0, second.TotalDays)
	assert.Equal(t, "กรุงเทพฯ", second.Address)
	assert.True(t, second.CreatedAt.IsZero())
	assert.Equal(t, "ok", second.Note)
}

func TestList_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "<html>login required</html>")
		}},
		{"object instead of array", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"error":"quota"}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newTestGateway(t, tt.handler)
			_, err := gw.List(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestList_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	gw := NewGateway(Config{Endpoint: server.URL}, nil)
	_, err := gw.List(context.Background())
	assert.Error(t, err)
}

func captureBody(t *testing.T, status int, into *map[string]interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, into))
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"result":"success"}`)
	}
}

func TestCreate_SendsEnvelope(t *testing.T) {
	var got map[string]interface{}
	gw := newTestGateway(t, captureBody(t, http.StatusOK, &got))

	leave := &entity.LeaveRequest{
		FullName:   "สมชาย ใจดี",
		Position:   "ครู คศ.1",
		Department: entity.DepartmentScience,
		LeaveType:  entity.LeaveTypePersonal,
		StartDate:  calendar.MustParseDate("2023-11-01"),
		EndDate:    calendar.MustParseDate("2023-11-02"),
		TotalDays:  2,
		Reason:     "ธุระ",
		Address:    "บ้าน",
		Contact:    "081",
		Status:     entity.StatusPending,
		CreatedAt:  time.Date(2023, 10, 30, 16, 4, 5, 0, bangkok),
	}
	require.NoError(t, gw.Create(context.Background(), leave))

	assert.Equal(t, "create", got["action"])
	payload, ok := got["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "สมชาย ใจดี", payload["fullName"])
	assert.Equal(t, "วิทยาศาสตร์และเทคโนโลยี", payload["department"])
	assert.Equal(t, "ลากิจ", payload["leaveType"])
	assert.Equal(t, "2023-11-01", payload["startDate"])
	assert.Equal(t, float64(2), payload["totalDays"])
	assert.Equal(t, "รออนุมัติ", payload["status"])
	assert.Equal(t, "2023-10-30T09:04:05.000Z", payload["createdAt"])
	assert.NotContains(t, payload, "id")
}

func TestDelete_SendsEnvelope(t *testing.T) {
	var got map[string]interface{}
	gw := newTestGateway(t, captureBody(t, http.StatusOK, &got))

	require.NoError(t, gw.Delete(context.Background(), "42"))
	assert.Equal(t, map[string]interface{}{"action": "delete", "id": "42"}, got)
}

func TestUpdateStatus_SendsEnvelope(t *testing.T) {
	var got map[string]interface{}
	gw := newTestGateway(t, captureBody(t, http.StatusOK, &got))

	require.NoError(t, gw.UpdateStatus(context.Background(), "42", entity.StatusRejected, "-"))
	assert.Equal(t, "updateStatus", got["action"])
	assert.Equal(t, "42", got["id"])
	assert.Equal(t, "ไม่อนุมัติ", got["status"])
	assert.Equal(t, "-", got["note"])

	got = nil
	require.NoError(t, gw.UpdateStatus(context.Background(), "43", entity.StatusApproved, ""))
	assert.NotContains(t, got, "note")
}

func TestPost_FailureStatus(t *testing.T) {
	var got map[string]interface{}
	gw := newTestGateway(t, captureBody(t, http.StatusBadGateway, &got))

	err := gw.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
