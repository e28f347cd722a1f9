package sql

import "embed"

// Migrations holds the schema migration files, applied in filename order.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/insert_snapshot.sql
var InsertSnapshot string

//go:embed queries/latest_snapshot.sql
var LatestSnapshot string

//go:embed queries/latest_snapshot_meta.sql
var LatestSnapshotMeta string
