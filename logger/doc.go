// Package logger provides structured logging for restkit using zerolog.
//
// It supports JSON and console output, level configuration from the
// environment, and component-scoped loggers with structured fields. The rest
// client accepts a *Logger and emits one event per transaction.
//
// # Usage
//
//	log := logger.NewDefault("my-service").WithComponent("rest")
//	log.Debug("transaction complete", logger.Fields("status", 200))
package logger
