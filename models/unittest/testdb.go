// Copyright 2022 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package unittest

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/deskboard/deskboard/models/db"
	"github.com/deskboard/deskboard/modules/setting"

	"github.com/stretchr/testify/assert"
	"xorm.io/xorm"
	"xorm.io/xorm/names"
)

var testDBCounter atomic.Int64

// PrepareTestDatabase replaces the default engine with a fresh in-memory
// SQLite database and syncs all registered models into it. Each call gives
// the test a clean schema with no rows.
func PrepareTestDatabase() error {
	db.UnsetDefaultEngine()

	// a unique name per preparation, otherwise the shared cache would leak
	// rows from a previous test
	connStr := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_txlock=immediate", testDBCounter.Add(1))
	engine, err := xorm.NewEngine("sqlite3", connStr)
	if err != nil {
		return err
	}
	engine.SetMapper(names.GonicMapper{})
	// in-memory sqlite with shared cache needs the connection kept open,
	// otherwise the database vanishes between sessions
	engine.SetMaxIdleConns(1)
	engine.SetConnMaxLifetime(0)

	db.SetDefaultEngine(context.Background(), engine)
	return db.SyncAllTables()
}

// MainTest should be called by every package's TestMain
func MainTest(m *testing.M) {
	setting.InitCfgForTest()
	if err := PrepareTestDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "unable to prepare test database: %v\n", err)
		os.Exit(1)
	}
	exitStatus := m.Run()
	db.UnsetDefaultEngine()
	os.Exit(exitStatus)
}

// AssertExistsAndLoadBean assert that a bean exists and load it from the test database
func AssertExistsAndLoadBean[T any](t testing.TB, bean T, conditions ...any) T {
	exists, err := loadBeanIfExists(bean, conditions...)
	assert.NoError(t, err)
	assert.True(t, exists,
		"Expected to find %+v (of type %T, with conditions %+v), but did not",
		bean, bean, conditions)
	return bean
}

// AssertNotExistsBean assert that a bean does not exist in the test database
func AssertNotExistsBean(t testing.TB, bean any, conditions ...any) {
	exists, err := loadBeanIfExists(bean, conditions...)
	assert.NoError(t, err)
	assert.False(t, exists)
}

// AssertCount assert the count of a bean
func AssertCount(t testing.TB, bean, expected any) bool {
	return assert.EqualValues(t, expected, GetCount(t, bean))
}

// GetCount get the count of a bean
func GetCount(t testing.TB, bean any, conditions ...any) int {
	e := db.GetEngine(db.DefaultContext)
	if len(conditions) > 0 {
		e = e.Where(conditions[0], conditions[1:]...)
	}
	count, err := e.Count(bean)
	assert.NoError(t, err)
	return int(count)
}

func loadBeanIfExists(bean any, conditions ...any) (bool, error) {
	e := db.GetEngine(db.DefaultContext)
	if len(conditions) > 0 {
		e = e.Where(conditions[0], conditions[1:]...)
	}
	return e.Get(bean)
}
