package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/jackzampolin/bookmark"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "description": "Liveness probe with the list of configured sources",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.HealthResponse"}
                    }
                }
            }
        },
        "/api/toc": {
            "get": {
                "description": "Try the configured sources in order and return the first non-empty table of contents",
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Resolve a table of contents",
                "parameters": [
                    {"type": "string", "description": "Litres numeric ID", "name": "litres_id", "in": "query"},
                    {"type": "string", "description": "ISBN", "name": "isbn", "in": "query"},
                    {"type": "string", "description": "Book title", "name": "title", "in": "query"},
                    {"type": "string", "description": "Direct page URL", "name": "url", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.TOCResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/endpoints.NotFoundResponse"}
                    }
                }
            }
        },
        "/api/info": {
            "get": {
                "description": "Try the configured sources in order and return the first metadata record with a title",
                "produces": ["application/json"],
                "tags": ["books"],
                "summary": "Resolve book metadata",
                "parameters": [
                    {"type": "string", "description": "Litres numeric ID", "name": "litres_id", "in": "query"},
                    {"type": "string", "description": "ISBN", "name": "isbn", "in": "query"},
                    {"type": "string", "description": "Book title", "name": "title", "in": "query"},
                    {"type": "string", "description": "Direct page URL", "name": "url", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.InfoResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/endpoints.NotFoundResponse"}
                    }
                }
            }
        },
        "/api/progress": {
            "post": {
                "description": "Parse the progress checklist of a markdown note and score it",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["progress"],
                "summary": "Score reading progress",
                "parameters": [
                    {
                        "description": "Note contents",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/endpoints.ProgressRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/endpoints.ProgressResponse"}
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/endpoints.ErrorResponse"}
                    }
                }
            }
        },
        "/swagger.json": {
            "get": {
                "produces": ["application/json"],
                "tags": ["docs"],
                "summary": "OpenAPI document",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "endpoints.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "endpoints.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "sources": {"type": "array", "items": {"type": "string"}}
            }
        },
        "resolve.Attempt": {
            "type": "object",
            "properties": {
                "source": {"type": "string"},
                "url": {"type": "string"},
                "status": {"type": "string"},
                "chapters": {"type": "integer"},
                "error": {"type": "string"}
            }
        },
        "types.ChapterEntry": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "depth": {"type": "integer"}
            }
        },
        "types.BookMetadata": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "author": {"type": "string"},
                "cover": {"type": "string"},
                "pages": {"type": "integer"},
                "isbn": {"type": "string"},
                "publisher": {"type": "string"},
                "year": {"type": "string"},
                "source_id": {"type": "string"},
                "source_url": {"type": "string"}
            }
        },
        "endpoints.TOCResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "source": {"type": "string"},
                "source_url": {"type": "string"},
                "preview_url": {"type": "string"},
                "chapters": {"type": "array", "items": {"$ref": "#/definitions/types.ChapterEntry"}},
                "lines": {"type": "array", "items": {"type": "string"}},
                "markdown": {"type": "string"},
                "attempts": {"type": "array", "items": {"$ref": "#/definitions/resolve.Attempt"}}
            }
        },
        "endpoints.InfoResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "source": {"type": "string"},
                "source_url": {"type": "string"},
                "metadata": {"$ref": "#/definitions/types.BookMetadata"},
                "frontmatter": {"type": "string"},
                "attempts": {"type": "array", "items": {"$ref": "#/definitions/resolve.Attempt"}}
            }
        },
        "endpoints.NotFoundResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "guidance": {"type": "string"},
                "request_id": {"type": "string"},
                "preview_url": {"type": "string"},
                "attempts": {"type": "array", "items": {"$ref": "#/definitions/resolve.Attempt"}}
            }
        },
        "endpoints.ProgressRequest": {
            "type": "object",
            "properties": {
                "markdown": {"type": "string"},
                "total_pages": {"type": "integer"},
                "heading": {"type": "string"}
            }
        },
        "endpoints.ProgressResponse": {
            "type": "object",
            "properties": {
                "total_items": {"type": "integer"},
                "completed_items": {"type": "integer"},
                "progress_by_items": {"type": "number"},
                "progress_by_weight": {"type": "number"},
                "progress_by_pages": {"type": "number"},
                "total_weight": {"type": "integer"},
                "completed_weight": {"type": "integer"},
                "total_pages": {"type": "integer"},
                "completed_pages": {"type": "integer"},
                "progress": {"type": "number"},
                "method": {"type": "string"},
                "total_pages_source": {"type": "string"},
                "summary": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Bookmark API",
	Description:      "Table-of-contents resolution and reading-progress scoring for book notes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
