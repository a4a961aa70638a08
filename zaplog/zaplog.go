// Package zaplog adapts a zap logger to the core diagnostic sink contract,
// for services that already route their logs through zap.
package zaplog

import (
	"go.uber.org/zap"

	"github.com/alt-coder/stepchain-go/core"
)

// Sink forwards diagnostics to a zap logger.
type Sink struct {
	log *zap.SugaredLogger
}

var _ core.Sink = (*Sink)(nil)

// New creates a sink backed by l.
func New(l *zap.Logger) *Sink {
	return &Sink{log: l.Sugar()}
}

func (s *Sink) Info(msg string)  { s.log.Info(msg) }
func (s *Sink) Warn(msg string)  { s.log.Warn(msg) }
func (s *Sink) Error(msg string) { s.log.Error(msg) }
