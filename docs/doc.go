// Package docs provides the OpenAPI documentation for the bookmark server.
//
// Bookmark API
//
//	@title			Bookmark API
//	@version		1.0
//	@description	Table-of-contents resolution and reading-progress scoring for book notes.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/bookmark
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

//go:generate swag init -g doc.go -d ./,../internal/server/endpoints,../internal/resolve,../internal/types,../internal/progress -o . --outputTypes go
