// Copyright 2023 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

var (
	// AppName is the application name, used in page titles and logs
	AppName string

	// Server settings

	Domain   string
	HTTPAddr string
	HTTPPort string

	// EnableCORS enables the CORS middleware for the API routes
	EnableCORS bool
	// CORSAllowedOrigins is the list of origins the frontend may be served from
	CORSAllowedOrigins []string
)

func loadServerFrom(cfg ConfigProvider) {
	sec := cfg.Section("server")
	AppName = cfg.Section("").Key("APP_NAME").MustString("Deskboard")
	Domain = sec.Key("DOMAIN").MustString("localhost")
	HTTPAddr = sec.Key("HTTP_ADDR").MustString("0.0.0.0")
	HTTPPort = sec.Key("HTTP_PORT").MustString("3000")

	corsSec := cfg.Section("cors")
	EnableCORS = corsSec.Key("ENABLED").MustBool(false)
	CORSAllowedOrigins = corsSec.Key("ALLOWED_ORIGINS").Strings(",")
}
