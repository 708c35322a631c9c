// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying request fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Debug("dispatch", logger.Fields(logger.FieldRequestID, id, logger.FieldURL, url))
package logger
