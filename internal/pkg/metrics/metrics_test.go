package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGateway_Outcome(t *testing.T) {
	okBefore := testutil.ToFloat64(GatewayRequests.WithLabelValues("test", "op", "ok"))
	errBefore := testutil.ToFloat64(GatewayRequests.WithLabelValues("test", "op", "error"))

	var err error
	ObserveGateway("test", "op", time.Now(), &err)
	err = errors.New("boom")
	ObserveGateway("test", "op", time.Now(), &err)

	if got := testutil.ToFloat64(GatewayRequests.WithLabelValues("test", "op", "ok")); got != okBefore+1 {
		t.Errorf("expected ok counter %v, got %v", okBefore+1, got)
	}
	if got := testutil.ToFloat64(GatewayRequests.WithLabelValues("test", "op", "error")); got != errBefore+1 {
		t.Errorf("expected error counter %v, got %v", errBefore+1, got)
	}
}

type fakeStat struct{}

func (fakeStat) AcquiredConns() int32 { return 2 }
func (fakeStat) IdleConns() int32     { return 3 }
func (fakeStat) TotalConns() int32    { return 5 }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(fakeStat{})
	if got := testutil.ToFloat64(DBPoolConnsOpen); got != 5 {
		t.Errorf("expected 5 open conns, got %v", got)
	}
	if got := testutil.ToFloat64(DBPoolConnsIdle); got != 3 {
		t.Errorf("expected 3 idle conns, got %v", got)
	}

	// unknown types are ignored
	UpdateDBPoolMetrics(struct{}{})
	if got := testutil.ToFloat64(DBPoolConnsAcquired); got != 2 {
		t.Errorf("expected 2 acquired conns, got %v", got)
	}
}
