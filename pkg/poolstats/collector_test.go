package poolstats

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var _ stat = (*pgxStatMock)(nil)

type pgxStatMock struct {
	acquireCount         int64
	acquireDuration      time.Duration
	canceledAcquireCount int64
	emptyAcquireCount    int64
	acquiredConns        int32
	constructingConns    int32
	idleConns            int32
	maxConns             int32
	totalConns           int32
}

func (m *pgxStatMock) AcquireCount() int64          { return m.acquireCount }
func (m *pgxStatMock) AcquireDuration() time.Duration {
	return m.acquireDuration
}
func (m *pgxStatMock) AcquiredConns() int32        { return m.acquiredConns }
func (m *pgxStatMock) CanceledAcquireCount() int64 { return m.canceledAcquireCount }
func (m *pgxStatMock) ConstructingConns() int32    { return m.constructingConns }
func (m *pgxStatMock) EmptyAcquireCount() int64    { return m.emptyAcquireCount }
func (m *pgxStatMock) IdleConns() int32            { return m.idleConns }
func (m *pgxStatMock) MaxConns() int32             { return m.maxConns }
func (m *pgxStatMock) TotalConns() int32           { return m.totalConns }

func TestDescribe(t *testing.T) {
	const expectedDescriptorCount = 9
	timeout := time.After(time.Second * 5)
	mock := &pgxStatMock{}
	testObject := newCollector(func() stat { return mock }, t.Name())

	ch := make(chan *prometheus.Desc)
	go func() {
		testObject.Describe(ch)
		close(ch)
	}()

	uniqueDescriptors := make(map[string]struct{})
	for {
		select {
		case desc, ok := <-ch:
			if !ok {
				if len(uniqueDescriptors) != expectedDescriptorCount {
					t.Errorf("got %d descriptors, want %d", len(uniqueDescriptors), expectedDescriptorCount)
				}
				return
			}
			uniqueDescriptors[desc.String()] = struct{}{}
		case <-timeout:
			t.Fatal("timed out waiting for describe")
		}
	}
}

func TestCollect(t *testing.T) {
	mock := &pgxStatMock{
		acquireCount:    3,
		acquireDuration: 2 * time.Second,
		acquiredConns:   1,
		idleConns:       2,
		maxConns:        8,
		totalConns:      3,
	}
	testObject := newCollector(func() stat { return mock }, t.Name())

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(testObject); err != nil {
		t.Fatal(err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}

	got := make(map[string]float64)
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				got[mf.GetName()] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				got[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	want := map[string]float64{
		"pgxpool_acquire_count":                  3,
		"pgxpool_acquire_duration_seconds_total": 2,
		"pgxpool_acquired_conns":                 1,
		"pgxpool_idle_conns":                     2,
		"pgxpool_max_conns":                      8,
		"pgxpool_total_conns":                    3,
	}
	for name, v := range want {
		if got[name] != v {
			t.Errorf("%s: got %v, want %v", name, got[name], v)
		}
	}
}
