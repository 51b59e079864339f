package container

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/garyjia/school-leave/internal/application/service"
	"github.com/garyjia/school-leave/internal/config"
)

func testConfig(t *testing.T, endpoint string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 18080},
		Remote:   config.RemoteConfig{Endpoint: endpoint, Timeout: 5 * time.Second, CacheTTL: time.Minute},
		Calendar: config.CalendarConfig{Timezone: "Asia/Bangkok"},
		School:   config.SchoolConfig{Name: "โรงเรียนทดสอบ"},
		Admin:    config.AdminConfig{Passphrase: "s3cret"},
		Database: config.DatabaseConfig{Path: filepath.Join(dir, "leave.db"), MaxOpenConns: 1, MaxIdleConns: 1},
		Storage:  config.StorageConfig{ReportDir: filepath.Join(dir, "reports")},
	}
}

func TestNewContainer_Validation(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewContainer(nil, logger)
	assert.Error(t, err)

	cfg := testConfig(t, "https://script.example.com/exec")
	_, err = NewContainer(cfg, nil)
	assert.Error(t, err)

	cfg.Admin.Passphrase = ""
	_, err = NewContainer(cfg, logger)
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`[{"id":1,"fullName":"สมชาย","department":"คณิตศาสตร์","leaveType":"ลาป่วย",` +
				`"startDate":"2023-11-01","endDate":"2023-11-02","totalDays":2,"status":"รออนุมัติ",` +
				`"createdAt":"2023-10-30T08:00:00.000Z"}]`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer remote.Close()

	c, err := NewContainer(testConfig(t, remote.URL), zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(ctx), "second start must fail")

	require.NotNil(t, c.Server())
	services := c.Services()
	require.NotNil(t, services)

	leaves := services.Leaves.List(ctx, service.ListFilter{})
	require.Len(t, leaves, 1)
	assert.Equal(t, "1", leaves[0].ID)

	require.NoError(t, services.Leaves.Approve(ctx, "1", "director"))

	rows, err := c.database.History.GetByLeaveID(ctx, "1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Succeeded)

	health := c.Health()
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.Equal(t, "disabled", health.Components["notifications"].Message)
	assert.Equal(t, "4 handlers", health.Components["dispatcher"].Message)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close(), "second close must fail")
	assert.Error(t, c.Start(ctx), "start after close must fail")
}
