package herokudeploy

import (
	"github.com/go-logr/logr"
	"github.com/twpayne/go-vfs"
	"github.com/variantdev/heroku-deploy/pkg/cmdsite"
	"github.com/variantdev/heroku-deploy/pkg/healthcheck"
	"github.com/variantdev/heroku-deploy/pkg/telemetry"
	"github.com/variantdev/heroku-deploy/pkg/vhttpget"
)

type Option interface {
	SetOption(r *Runner) error
}

func Logger(logger logr.Logger) Option {
	return &loggerOption{l: logger}
}

type loggerOption struct {
	l logr.Logger
}

func (s *loggerOption) SetOption(r *Runner) error {
	r.Logger = s.l
	return nil
}

func FS(fs vfs.FS) Option {
	return &fsOption{f: fs}
}

type fsOption struct {
	f vfs.FS
}

func (s *fsOption) SetOption(r *Runner) error {
	r.fs = s.f
	return nil
}

func Commander(cmdr cmdsite.RunCommand) Option {
	return &cmdrOption{cmdr: cmdr}
}

type cmdrOption struct {
	cmdr cmdsite.RunCommand
}

func (s *cmdrOption) SetOption(r *Runner) error {
	r.cmdr = s.cmdr
	return nil
}

func HTTPGetter(g vhttpget.Getter) Option {
	return &getterOption{g: g}
}

type getterOption struct {
	g vhttpget.Getter
}

func (s *getterOption) SetOption(r *Runner) error {
	r.httpGetter = s.g
	return nil
}

func Sleep(f healthcheck.SleepFunc) Option {
	return &sleepOption{f: f}
}

type sleepOption struct {
	f healthcheck.SleepFunc
}

func (s *sleepOption) SetOption(r *Runner) error {
	r.sleep = s.f
	return nil
}

func Metrics(m *telemetry.Metrics) Option {
	return &metricsOption{m: m}
}

type metricsOption struct {
	m *telemetry.Metrics
}

func (s *metricsOption) SetOption(r *Runner) error {
	r.metrics = s.m
	return nil
}
