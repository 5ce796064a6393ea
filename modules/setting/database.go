// Copyright 2014 The Gogs Authors. All rights reserved.
// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"fmt"
	"net/url"
	"time"
)

// SupportedDatabaseTypes includes all supported XORM dialects
var SupportedDatabaseTypes = []string{"sqlite3", "mysql", "postgres"}

// Database holds the database settings
var Database = struct {
	Type         string
	Host         string
	Name         string
	User         string
	Passwd       string
	SSLMode      string
	Path         string
	LogSQL       bool
	MaxIdleConns int
	MaxOpenConns int
	ConnMaxLife  time.Duration
}{
	Type:         "sqlite3",
	Path:         "data/deskboard.db",
	SSLMode:      "disable",
	MaxIdleConns: 2,
	MaxOpenConns: 0,
}

func loadDatabaseFrom(cfg ConfigProvider) {
	sec := cfg.Section("database")
	Database.Type = sec.Key("DB_TYPE").MustString("sqlite3")
	Database.Host = sec.Key("HOST").String()
	Database.Name = sec.Key("NAME").MustString("deskboard")
	Database.User = sec.Key("USER").String()
	Database.Passwd = sec.Key("PASSWD").String()
	Database.SSLMode = sec.Key("SSL_MODE").MustString("disable")
	Database.Path = sec.Key("PATH").MustString("data/deskboard.db")
	Database.LogSQL = sec.Key("LOG_SQL").MustBool(false)
	Database.MaxIdleConns = sec.Key("MAX_IDLE_CONNS").MustInt(2)
	Database.MaxOpenConns = sec.Key("MAX_OPEN_CONNS").MustInt(0)
	Database.ConnMaxLife = sec.Key("CONN_MAX_LIFETIME").MustDuration(0)
}

// DBConnStr returns the database connection string for the configured type
func DBConnStr() (string, error) {
	switch Database.Type {
	case "sqlite3":
		return fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=500&_txlock=immediate", Database.Path), nil
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true",
			Database.User, Database.Passwd, Database.Host, Database.Name), nil
	case "postgres":
		return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
			url.PathEscape(Database.User), url.PathEscape(Database.Passwd),
			Database.Host, Database.Name, Database.SSLMode), nil
	}
	return "", fmt.Errorf("unknown database type: %s", Database.Type)
}
