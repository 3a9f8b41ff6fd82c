// Package storex opens SQL connections for yolk's migration bookkeeping.
//
// # Overview
//
// sequelize-cli records applied migrations in the SequelizeMeta table. storex
// turns the project's Sequelize-style database URL into a GORM connection so
// that yolk can check reachability and read that table without Node.js.
//
// # Features
//
//   - Sequelize URL to driver DSN translation (mysql, mariadb, postgres, sqlite)
//   - Health checks with UNAVAILABLE classification
//   - Table existence and single-column reads
//
// # Usage
//
//	store, err := storex.Open(ctx, storex.Options{Dialect: "sqlite", URL: "sqlite:dev.sqlite", Root: root})
//	names, err := store.Strings(ctx, "SequelizeMeta", "name")
package storex
