// Package web встраивает шаблоны и статические файлы панели в бинарник.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed static
var Static embed.FS
