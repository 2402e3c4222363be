// Package gorm implements store.Store on GORM.
//
// The same Store runs on the sqlite and postgres dialectors. Schema is
// owned by golang-migrate: the SQL files under migrations/ are embedded
// and applied with Migrate or a Migrator.
//
//	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
//	if err := gormstore.Migrate(db, ""); err != nil {
//	    return err
//	}
//	s := gormstore.NewStore(db)
package gorm
