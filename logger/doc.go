// Package logger wraps zerolog with service and component tagging.
//
// Components obtain a tagged logger via WithComponent and log with
// optional structured fields:
//
//	log := logger.WithComponent("scripture")
//	log.Info("datasets loaded", map[string]interface{}{"count": 3})
package logger
