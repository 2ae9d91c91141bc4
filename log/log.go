// Copyright (c) 2026 The BFT Chain Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package log re-exports go-ethereum's structured logger so the rest of
// the core logs the way the teacher stack does, through a single choke
// point this package owns.
package log

import gethlog "github.com/ethereum/go-ethereum/log"

type Logger = gethlog.Logger

var (
	New  = gethlog.New
	Root = gethlog.Root
)

func Trace(msg string, ctx ...interface{}) { gethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { gethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { gethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { gethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { gethlog.Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { gethlog.Root().Crit(msg, ctx...) }
