// Package healthcheck probes a freshly released app and rolls it back when the probe fails.
package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/variantdev/heroku-deploy/pkg/vhttpget"
	"k8s.io/klog/klogr"
)

type Config struct {
	App string

	// URL is probed once. Checking is disabled when it is empty
	URL string

	// CheckString must appear in the response body when set
	CheckString string

	Delay    time.Duration
	Rollback bool
}

type Rollbacker interface {
	Rollback(app string) error
}

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Checker struct {
	getter     vhttpget.Getter
	rollbacker Rollbacker
	sleep      SleepFunc

	Logger logr.Logger
}

func New(getter vhttpget.Getter, rollbacker Rollbacker, sleep SleepFunc, logger logr.Logger) *Checker {
	if getter == nil {
		getter = vhttpget.New()
	}
	if sleep == nil {
		sleep = Sleep
	}
	if logger == nil {
		logger = klogr.New()
	}
	return &Checker{getter: getter, rollbacker: rollbacker, sleep: sleep, Logger: logger}
}

// Failure is returned when the probe did not pass
type Failure struct {
	URL string

	// StatusCode is zero when no response was received
	StatusCode int

	Reason string
	Err    error

	RolledBack  bool
	RollbackErr error
}

func (f *Failure) Error() string {
	msg := fmt.Sprintf("health check of %s failed: %s", f.URL, f.Reason)
	switch {
	case f.RollbackErr != nil:
		msg += fmt.Sprintf("; rollback failed: %v", f.RollbackErr)
	case f.RolledBack:
		msg += "; rolled back to the previous release"
	}
	return msg
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Verify returns nil when the check passes or is disabled, and a *Failure otherwise.
func (c *Checker) Verify(ctx context.Context, conf Config) error {
	if conf.URL == "" {
		return nil
	}

	if conf.Delay > 0 {
		c.Logger.Info("waiting before health check", "delay", conf.Delay.String())
	}
	if err := c.sleep(ctx, conf.Delay); err != nil {
		return err
	}

	failure := c.probe(ctx, conf)
	if failure == nil {
		c.Logger.Info("health check passed", "url", conf.URL)
		return nil
	}

	if !conf.Rollback {
		c.Logger.Info("health check failed", "url", conf.URL, "reason", failure.Reason)
		return failure
	}

	c.Logger.Info("health check failed, rolling back", "url", conf.URL, "reason", failure.Reason, "app", conf.App)

	if err := c.rollbacker.Rollback(conf.App); err != nil {
		failure.RollbackErr = err
		return failure
	}
	failure.RolledBack = true

	return failure
}

func (c *Checker) probe(ctx context.Context, conf Config) *Failure {
	res, err := c.getter.Get(ctx, conf.URL)
	if err != nil {
		return &Failure{URL: conf.URL, Reason: err.Error(), Err: err}
	}

	if res.StatusCode != http.StatusOK {
		return &Failure{
			URL:        conf.URL,
			StatusCode: res.StatusCode,
			Reason:     fmt.Sprintf("unexpected status %d", res.StatusCode),
		}
	}

	if conf.CheckString != "" && !strings.Contains(res.Body, conf.CheckString) {
		return &Failure{
			URL:        conf.URL,
			StatusCode: res.StatusCode,
			Reason:     fmt.Sprintf("response body does not contain %q", conf.CheckString),
		}
	}

	return nil
}
