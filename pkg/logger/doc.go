// Package logger builds *slog.Logger instances configured through functional
// options and decorated with context extractors, so request-scoped values such
// as the request id or the authenticated account id end up on every record.
//
// Typical wiring:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.New(append(logger.FromConfig(cfg),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)...)
//	logger.SetAsDefault(log)
//
// Attribute helpers in attr.go (AccountID, EventID, Error, ...) keep key names
// consistent across packages. Error and Errors return an empty attribute for
// nil errors, so they can be passed unconditionally.
package logger
