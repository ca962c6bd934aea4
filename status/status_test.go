package status

import (
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

// TestMetricMapGetIsStable verifies repeated Get returns the same pointer
func TestMetricMapGetIsStable(t *testing.T) {
	m := NewMetricMap[int]()
	a := m.Get("x")
	*a = 7
	if b := m.Get("x"); b != a || *b != 7 {
		t.Errorf("Expected same pointer holding 7, got %p (%d)", b, *b)
	}
	if !m.Has("x") || m.Has("y") {
		t.Errorf("Has mismatch")
	}
}

// TestMetricMapConcurrentGet verifies concurrent registration yields one entry
func TestMetricMapConcurrentGet(t *testing.T) {
	m := NewMetricMap[int]()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Get("shared")
		}()
	}
	wg.Wait()
	if m.Count() != 1 {
		t.Errorf("Expected 1 entry, got %d", m.Count())
	}
}

// TestMetricMapRangeSorted verifies Range visits keys in order
func TestMetricMapRangeSorted(t *testing.T) {
	m := NewMetricMap[int]()
	for _, k := range []string{"c", "a", "b"} {
		m.Get(k)
	}
	var keys []string
	m.Range(func(k string, _ *int) { keys = append(keys, k) })
	if strings.Join(keys, "") != "abc" {
		t.Errorf("Expected abc, got %v", keys)
	}
}

// TestAtomicStringTruncates verifies the length cap
func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Errorf("Expected empty zero value")
	}
	s.Store(strings.Repeat("x", MaxStringLen+10))
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected %d bytes, got %d", MaxStringLen, len(s.Load()))
	}
}

// TestCounterValuesCopiesCounters verifies only counters are copied
func TestCounterValuesCopiesCounters(t *testing.T) {
	reg := NewRegistry()
	reg.Counters.Get("engine.games").Add(2)
	reg.Ints.Get("engine.score").Store(4)

	got := reg.CounterValues()
	if len(got) != 1 || got["engine.games"] != 2 {
		t.Errorf("Expected only engine.games=2, got %v", got)
	}
	if reg.TotalCount() != 2 {
		t.Errorf("Expected 2 metrics in total, got %d", reg.TotalCount())
	}
}

// TestMetricName verifies dotted keys map to valid names
func TestMetricName(t *testing.T) {
	if got := MetricName("engine.games-over"); got != "simon_engine_games_over" {
		t.Errorf("Expected simon_engine_games_over, got %s", got)
	}
}

// TestCollectorGathers verifies every registry type reaches Prometheus
func TestCollectorGathers(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("engine.score").Store(5)
	reg.Counters.Get("engine.presses").Add(3)
	reg.Bools.Get("audio.muted").Store(true)
	reg.Strings.Get("engine.phase").Store("input")

	promReg := prometheus.NewRegistry()
	if err := promReg.Register(NewCollector(reg)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	values := make(map[string]float64)
	types := make(map[string]dto.MetricType)
	for _, f := range families {
		types[f.GetName()] = f.GetType()
		m := f.GetMetric()[0]
		if f.GetType() == dto.MetricType_COUNTER {
			values[f.GetName()] = m.GetCounter().GetValue()
			continue
		}
		values[f.GetName()] = m.GetGauge().GetValue()
	}
	if values["simon_engine_score"] != 5 {
		t.Errorf("Expected score 5, got %v", values["simon_engine_score"])
	}
	if values["simon_engine_presses_total"] != 3 || types["simon_engine_presses_total"] != dto.MetricType_COUNTER {
		t.Errorf("Expected presses counter 3, got %v (%v)", values["simon_engine_presses_total"], types["simon_engine_presses_total"])
	}
	if types["simon_engine_score"] != dto.MetricType_GAUGE {
		t.Errorf("Expected score to stay a gauge, got %v", types["simon_engine_score"])
	}
	if values["simon_audio_muted"] != 1 {
		t.Errorf("Expected muted 1, got %v", values["simon_audio_muted"])
	}
	if _, ok := values["simon_engine_phase_info"]; !ok {
		t.Errorf("Expected phase info metric, got %v", values)
	}
}

// TestServiceServesMetrics verifies the optional endpoint serves the registry
func TestServiceServesMetrics(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	s := NewService(log)
	if err := s.Init("127.0.0.1:0"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.Registry().Ints.Get("engine.best").Store(9)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "simon_engine_best 9") {
		t.Errorf("Expected simon_engine_best 9 in body:\n%s", body)
	}
}

// TestServiceWithoutAddr verifies Start is a no-op when no address is set
func TestServiceWithoutAddr(t *testing.T) {
	s := NewService(logrus.New())
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Addr() != "" {
		t.Errorf("Expected no listener, got %s", s.Addr())
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := s.Init(42); err == nil {
		t.Errorf("Expected error for non-string addr")
	}
}

// TestServiceBusyAddr verifies an unusable address disables the endpoint without failing
func TestServiceBusyAddr(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	first := NewService(log)
	first.Init("127.0.0.1:0")
	if err := first.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second := NewService(log)
	second.Init(first.Addr())
	if err := second.Start(); err != nil {
		t.Errorf("Expected busy address to degrade silently, got %v", err)
	}
	if second.Addr() != "" {
		t.Errorf("Expected no listener on busy address, got %s", second.Addr())
	}
}
