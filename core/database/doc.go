// Package database opens the optional SQL connection used by the run ledger
// and the database record store.
//
// It wraps GORM and selects the dialector from Config.Driver: MySQL through
// gorm.io/driver/mysql, or a pure-Go SQLite file through glebarez/sqlite.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    logger.Warn("Database unavailable", zap.Error(err))
//	}
package database
