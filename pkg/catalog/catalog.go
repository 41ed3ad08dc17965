// Package catalog aggregates parsed custom tags across a stock collection
// and serves sorted, filtered and paginated views over them.
//
// Every call recomputes from the stocks it is given; only tag validation is
// memoized, through the shared tags.Cache.
package catalog

import (
	"runtime"

	"github.com/sw33tLie/tagscope/pkg/tags"
)

// Logger abstracts logging so callers can plug in logrus or anything with
// the same methods.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Options configures a Catalog.
type Options struct {
	Validator *tags.Validator // optional; nil = private cache
	Workers   int             // defaults to GOMAXPROCS if <= 0
	Log       Logger          // optional; nil = no logging
}

// Catalog runs the aggregation pipeline. It holds no collection state and
// is safe for concurrent use.
type Catalog struct {
	validator *tags.Validator
	workers   int
	log       Logger
}

func New(opts Options) *Catalog {
	v := opts.Validator
	if v == nil {
		v = tags.NewValidator(nil)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	log := opts.Log
	if log == nil {
		log = nopLogger{}
	}
	return &Catalog{validator: v, workers: workers, log: log}
}

// Validator returns the validator used for sorting and statistics.
func (c *Catalog) Validator() *tags.Validator {
	return c.validator
}

// Workers returns the fan-out width.
func (c *Catalog) Workers() int {
	return c.workers
}
