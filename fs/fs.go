// Package appfs embeds the files the binaries need at runtime.
package appfs

import "embed"

const EmailTemplatesDir = "templates/email"

//go:embed migrations/*.sql templates/email/*
var FS embed.FS
