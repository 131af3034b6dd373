// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"context"

	"github.com/seekerror/logw"
)

// LogwLogger adapts a github.com/seekerror/logw sink to this package's
// context-free Logger interface, the way morlock's own engine narrates
// progress through logw.Infof(ctx, format, args...) (see
// herohde/morlock/pkg/engine.Engine). The context is fixed at
// construction time since Logger.Infof carries none of its own.
type LogwLogger struct {
	ctx context.Context
}

// NewLogwLogger builds a Logger that narrates search progress through
// logw.Infof under ctx.
func NewLogwLogger(ctx context.Context) LogwLogger {
	return LogwLogger{ctx: ctx}
}

// Infof forwards to logw.Infof under the logger's fixed context.
func (l LogwLogger) Infof(format string, args ...interface{}) {
	logw.Infof(l.ctx, format, args...)
}
