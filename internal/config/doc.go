// Package config manages user-level settings stored at ~/.pkgplan/config.yaml:
// the default platform to resolve for, the default output format and the log
// level. Values can be overridden with PKGPLAN_* environment variables.
package config
