// Copyright 2014 The Gogs Authors. All rights reserved.
// Copyright 2018 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/deskboard/deskboard/modules/setting"

	"xorm.io/xorm"
	"xorm.io/xorm/names"

	// Needed for the MySQL driver
	_ "github.com/go-sql-driver/mysql"
	// Needed for the Postgresql driver
	_ "github.com/lib/pq"
	// Needed for the SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

var (
	x      *xorm.Engine
	tables []any
)

// Engine represents a xorm engine or session.
type Engine interface {
	Table(tableNameOrBean any) *xorm.Session
	Count(...any) (int64, error)
	Decr(column string, arg ...any) *xorm.Session
	Delete(...any) (int64, error)
	Exec(...any) (sql.Result, error)
	Find(any, ...any) error
	Get(beans ...any) (bool, error)
	ID(any) *xorm.Session
	In(string, ...any) *xorm.Session
	Incr(column string, arg ...any) *xorm.Session
	Insert(...any) (int64, error)
	Join(joinOperator string, tablename, condition any, args ...any) *xorm.Session
	SQL(any, ...any) *xorm.Session
	Where(any, ...any) *xorm.Session
	Asc(colNames ...string) *xorm.Session
	Desc(colNames ...string) *xorm.Session
	Limit(limit int, start ...int) *xorm.Session
	NoAutoTime() *xorm.Session
	SumInt(bean any, columnName string) (res int64, err error)
	Sync(...any) error
	Select(string) *xorm.Session
	SetExpr(string, any) *xorm.Session
	NotIn(string, ...any) *xorm.Session
	OrderBy(any, ...any) *xorm.Session
	Exist(...any) (bool, error)
	Cols(...string) *xorm.Session
	Context(ctx context.Context) *xorm.Session
	Ping() error
}

// RegisterModel registers a model, the table will be created by SyncAllTables
func RegisterModel(bean any) {
	tables = append(tables, bean)
}

// InitEngine initializes the xorm.Engine from the database settings and sets
// it as the default engine
func InitEngine(ctx context.Context) error {
	connStr, err := setting.DBConnStr()
	if err != nil {
		return err
	}

	engine, err := xorm.NewEngine(setting.Database.Type, connStr)
	if err != nil {
		return err
	}
	engine.SetMapper(names.GonicMapper{})
	engine.ShowSQL(setting.Database.LogSQL)
	engine.SetMaxIdleConns(setting.Database.MaxIdleConns)
	engine.SetMaxOpenConns(setting.Database.MaxOpenConns)
	engine.SetConnMaxLifetime(setting.Database.ConnMaxLife)
	engine.SetDefaultContext(ctx)

	if err := engine.Ping(); err != nil {
		_ = engine.Close()
		return err
	}

	SetDefaultEngine(ctx, engine)
	return nil
}

// SetDefaultEngine sets the default engine for db
func SetDefaultEngine(ctx context.Context, eng *xorm.Engine) {
	x = eng
	DefaultContext = &Context{Context: ctx, e: x}
}

// UnsetDefaultEngine closes and unsets the default engine, used by tests
func UnsetDefaultEngine() {
	if x != nil {
		_ = x.Close()
		x = nil
	}
	DefaultContext = nil
}

// SyncAllTables sync the schemas of all registered tables
func SyncAllTables() error {
	return x.Sync(tables...)
}

// GetMasterEngine returns the underlying master xorm engine
func GetMasterEngine() *xorm.Engine {
	return x
}

// Ping pings the database with a timeout
func Ping(ctx context.Context) error {
	if x == nil {
		return ErrDatabaseNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return x.PingContext(ctx)
}

// TableName returns the table name according a bean object
func TableName(bean any) string {
	return x.TableName(bean)
}

func init() {
	gonicNames := []string{"SSL", "UID", "WIP"}
	for _, name := range gonicNames {
		names.LintGonicMapper[name] = true
	}
}
