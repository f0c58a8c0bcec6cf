package store

import "codeberg.org/mutker/pgscout/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidDBPath = errors.ErrorCode("store_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed  = errors.ErrorCode("store_schema_init_failed")
	ErrTransactionFailed = errors.ErrorCode("store_transaction_failed")

	// Storage Errors
	ErrStorageInit  = errors.ErrInitStore
	ErrStorageClose = errors.ErrCloseStore

	// Collection Errors
	ErrRecordFailed  = errors.ErrRecordSample
	ErrInvalidSample = errors.ErrorCode("store_invalid_sample")

	// Operation Errors
	ErrOperationTimeout = errors.ErrTimeout
	ErrServiceShutdown  = errors.ErrShutdownFailed
)
